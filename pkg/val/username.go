package val

import "errors"

const (
	usernameMinLen = 3
	usernameMaxLen = 50

	// DeletedUsername is the literal a soft-deleted user's username is
	// rewritten to. It can never be chosen at registration.
	DeletedUsername = "Deleted User"
)

var (
	ErrInvalidUsername = errors.New(
		"must be between 3 and 50 characters long and contain only letters, numbers, and underscores",
	)
	ErrReservedUsername = errors.New("username is reserved")
)

func ValidateUsername(username string) error {
	if username == DeletedUsername {
		return ErrReservedUsername
	}
	if !isValidUsername(username) {
		return ErrInvalidUsername
	}
	return nil
}

func isValidUsername(username string) bool {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return false
	}

	for _, c := range username {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}

	return true
}
