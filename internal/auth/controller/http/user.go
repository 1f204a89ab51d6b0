package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/code19m/pulsechat/internal/account/usecase/accountuc"
	"github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/internal/auth/usecase/userqueryuc"
	"github.com/code19m/pulsechat/pkg/httpx"
)

func (c *ctrl) searchUsers(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[userqueryuc.SearchUsersReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.userQueryUsecase.SearchUsers(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) getUser(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[userqueryuc.GetUserReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.userQueryUsecase.GetUser(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) deleteMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.accountUsecase.DeleteMyAccount(r.Context(), accountuc.DeleteMyAccountReq{ActorID: userID}); err != nil {
		httpx.HandleError(w, err)
		return
	}

	expireSessionCookie(w)
	httpx.WriteResponse(http.StatusOK, w, nil)
}

func (c *ctrl) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	const maxFileSize = 5 << 20 // 5 MB

	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)
	if err := r.ParseMultipartForm(maxFileSize); err != nil {
		httpx.HandleError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	req := userqueryuc.UploadAvatarReq{
		ActorID:     userID,
		File:        fileData,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(fileData)),
	}
	if err := req.Validate(); err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.userQueryUsecase.UploadAvatar(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) downloadAvatar(w http.ResponseWriter, r *http.Request) {
	req := userqueryuc.DownloadAvatarReq{
		ImagePath: strings.TrimPrefix(r.PathValue("image_path"), "/"),
	}
	if err := req.Validate(); err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.userQueryUsecase.DownloadAvatar(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Disposition", "inline; filename=\""+resp.FileName+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.File)
}
