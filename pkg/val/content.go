package val

import (
	"errors"
	"unicode/utf8"
)

const (
	MessageContentMinLen = 1
	MessageContentMaxLen = 5000

	ChatTitleMaxLen       = 100
	ChatDescriptionMaxLen = 500

	SearchQueryMinLen = 3
	SearchResultLimit = 10
)

var (
	ErrInvalidMessageContent = errors.New("content must be between 1 and 5000 characters")
	ErrChatTitleTooLong      = errors.New("title must be at most 100 characters")
	ErrChatDescriptionTooLong = errors.New("description must be at most 500 characters")
	ErrSearchQueryTooShort   = errors.New("search query must be at least 3 characters")
)

func ValidateMessageContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < MessageContentMinLen || n > MessageContentMaxLen {
		return ErrInvalidMessageContent
	}
	return nil
}

func ValidateChatTitle(title string) error {
	if utf8.RuneCountInString(title) > ChatTitleMaxLen {
		return ErrChatTitleTooLong
	}
	return nil
}

func ValidateChatDescription(description string) error {
	if utf8.RuneCountInString(description) > ChatDescriptionMaxLen {
		return ErrChatDescriptionTooLong
	}
	return nil
}

func ValidateSearchQuery(query string) error {
	if utf8.RuneCountInString(query) < SearchQueryMinLen {
		return ErrSearchQueryTooShort
	}
	return nil
}
