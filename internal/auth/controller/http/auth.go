package http

import (
	"net/http"
	"strings"

	"github.com/code19m/pulsechat/internal/auth/usecase/authuc"
	"github.com/code19m/pulsechat/pkg/httpx"
)

func (c *ctrl) register(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[authuc.RegisterReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.authUsecase.Register(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) login(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[authuc.LoginReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp, err := c.authUsecase.Login(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    resp.AccessToken,
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.cookieMaxAge.Seconds()),
		Path:     "/",
	})
	w.Header().Set("Authorization", "Bearer "+resp.AccessToken)

	httpx.WriteResponse(http.StatusOK, w, resp)
}

func (c *ctrl) logout(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[authuc.LogoutReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.AccessToken = bearerOrCookie(r)

	if err := c.authUsecase.Logout(r.Context(), req); err != nil {
		httpx.HandleError(w, err)
		return
	}

	expireSessionCookie(w)
	httpx.WriteResponse(http.StatusNoContent, w, nil)
}

func bearerOrCookie(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

func expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})
}
