package authuc

import (
	"context"

	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/val"
)

type UseCase interface {
	Register(ctx context.Context, req RegisterReq) (*RegisterResp, error)
	Login(ctx context.Context, req LoginReq) (*LoginResp, error)
	Logout(ctx context.Context, req LogoutReq) error
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (req RegisterReq) Validate() error {
	var verr error

	if err := val.ValidateUsername(req.Username); err != nil {
		verr = errs.AddFieldError(verr, "username", err.Error())
	}
	if len(req.Password) < 8 {
		verr = errs.AddFieldError(verr, "password", "password must be at least 8 characters")
	}
	if req.Email != "" {
		if err := val.ValidateEmail(req.Email); err != nil {
			verr = errs.AddFieldError(verr, "email", err.Error())
		}
	}

	return verr
}

type RegisterResp struct {
	UserID int `json:"user_id"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req LoginReq) Validate() error {
	var verr error

	if req.Username == "" {
		verr = errs.AddFieldError(verr, "username", "username is required")
	}
	if req.Password == "" {
		verr = errs.AddFieldError(verr, "password", "password is required")
	}

	return verr
}

type LoginResp struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutReq struct {
	AccessToken string `json:"-"`
}

func (req LogoutReq) Validate() error {
	return nil
}
