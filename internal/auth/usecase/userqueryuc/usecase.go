package userqueryuc

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"context"

	"github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/filestore"
	"github.com/code19m/pulsechat/pkg/val"
)

var allowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png"}

type useCase struct {
	userRepo  domain.UserRepository
	fileStore filestore.Store
}

func New(userRepo domain.UserRepository, fileStore filestore.Store) UseCase {
	return &useCase{
		userRepo:  userRepo,
		fileStore: fileStore,
	}
}

func (uc *useCase) GetUser(ctx context.Context, req GetUserReq) (*GetUserResp, error) {
	const op = "userqueryuc.GetUser"

	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, errs.ReplaceOn(err, errs.ErrNotFound, errs.NewNotFoundError("user_id", "user not found"))
	}
	if user.IsDeleted() {
		return nil, errs.Wrap(op, errs.NewNotFoundError("user_id", "user not found"))
	}

	return &GetUserResp{UserID: user.ID, Username: user.Username}, nil
}

func (uc *useCase) SearchUsers(ctx context.Context, req SearchUsersReq) (*SearchUsersResp, error) {
	const op = "userqueryuc.SearchUsers"

	users, err := uc.userRepo.SearchByUsernamePrefix(ctx, req.Search, val.SearchResultLimit)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	items := make([]GetUserResp, 0, len(users))
	for _, u := range users {
		items = append(items, GetUserResp{UserID: u.ID, Username: u.Username})
	}

	return &SearchUsersResp{Users: items}, nil
}

func (uc *useCase) UploadAvatar(ctx context.Context, req UploadAvatarReq) (*UploadAvatarResp, error) {
	const op = "userqueryuc.UploadAvatar"

	if !slices.Contains(allowedImageTypes, strings.ToLower(req.ContentType)) {
		return nil, errs.Wrap(op, errs.NewValidationError("file must be a JPEG or PNG image"))
	}

	ext := filepath.Ext(req.FileName)
	imagePath := fmt.Sprintf("users/%d/avatar%s", req.ActorID, ext)

	reader := bytes.NewReader(req.File)
	if err := uc.fileStore.Upload(ctx, imagePath, reader, req.Size, req.ContentType); err != nil {
		return nil, errs.Wrap(op, err)
	}

	return &UploadAvatarResp{ImagePath: imagePath}, nil
}

func (uc *useCase) DownloadAvatar(ctx context.Context, req DownloadAvatarReq) (*DownloadAvatarResp, error) {
	const op = "userqueryuc.DownloadAvatar"

	exists, err := uc.fileStore.Exists(ctx, req.ImagePath)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	if !exists {
		return nil, errs.Wrap(op, errs.NewNotFoundError("image_path", "file does not exist"))
	}

	contentType, err := uc.fileStore.GetContentType(ctx, req.ImagePath)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	reader, err := uc.fileStore.Download(ctx, req.ImagePath)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	return &DownloadAvatarResp{
		File:        fileData,
		ContentType: contentType,
		FileName:    filepath.Base(req.ImagePath),
	}, nil
}
