package accountuc

import "context"

// UseCase implements account lifecycle operations that span both the auth
// and chat domains.
type UseCase interface {
	DeleteMyAccount(ctx context.Context, req DeleteMyAccountReq) error
}

type DeleteMyAccountReq struct {
	ActorID int `json:"-"`
}

func (req DeleteMyAccountReq) Validate() error {
	return nil
}
