package userqueryuc

import (
	"context"

	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/val"
)

type UseCase interface {
	GetUser(ctx context.Context, req GetUserReq) (*GetUserResp, error)
	SearchUsers(ctx context.Context, req SearchUsersReq) (*SearchUsersResp, error)
	UploadAvatar(ctx context.Context, req UploadAvatarReq) (*UploadAvatarResp, error)
	DownloadAvatar(ctx context.Context, req DownloadAvatarReq) (*DownloadAvatarResp, error)
}

type GetUserReq struct {
	UserID int `path:"user_id"`
}

func (req GetUserReq) Validate() error {
	var verr error
	if req.UserID <= 0 {
		verr = errs.AddFieldError(verr, "user_id", "invalid user id")
	}
	return verr
}

type GetUserResp struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

type SearchUsersReq struct {
	Search string `query:"search"`
}

func (req SearchUsersReq) Validate() error {
	var verr error
	if err := val.ValidateSearchQuery(req.Search); err != nil {
		verr = errs.AddFieldError(verr, "search", err.Error())
	}
	return verr
}

type SearchUsersResp struct {
	Users []GetUserResp `json:"users"`
}

type UploadAvatarReq struct {
	ActorID     int    `json:"-"`
	File        []byte `json:"-"`
	FileName    string `json:"-"`
	ContentType string `json:"-"`
	Size        int64  `json:"-"`
}

func (req UploadAvatarReq) Validate() error {
	var verr error
	if len(req.File) == 0 {
		verr = errs.AddFieldError(verr, "file", "file is required")
	}
	if req.Size <= 0 {
		verr = errs.AddFieldError(verr, "size", "invalid file size")
	}
	return verr
}

type UploadAvatarResp struct {
	ImagePath string `json:"image_path"`
}

type DownloadAvatarReq struct {
	ImagePath string `path:"image_path"`
}

func (req DownloadAvatarReq) Validate() error {
	var verr error
	if req.ImagePath == "" {
		verr = errs.AddFieldError(verr, "image_path", "image path is required")
	}
	return verr
}

type DownloadAvatarResp struct {
	File        []byte
	ContentType string
	FileName    string
}
