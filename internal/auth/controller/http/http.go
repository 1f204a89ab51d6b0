package http

import (
	"net/http"
	"time"

	"github.com/code19m/pulsechat/internal/account/usecase/accountuc"
	"github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/internal/auth/usecase/authuc"
	"github.com/code19m/pulsechat/internal/auth/usecase/userqueryuc"
)

type ctrl struct {
	mux    *http.ServeMux
	prefix string

	authUsecase       authuc.UseCase
	userQueryUsecase  userqueryuc.UseCase
	accountUsecase    accountuc.UseCase

	auth *middleware.Auth

	cookieSecure bool
	cookieMaxAge time.Duration
}

func Register(
	mux *http.ServeMux,
	prefix string,
	authUsecase authuc.UseCase,
	userQueryUsecase userqueryuc.UseCase,
	accountUsecase accountuc.UseCase,
	auth *middleware.Auth,
	cookieSecure bool,
	cookieMaxAge time.Duration,
) {
	c := &ctrl{
		mux:              mux,
		prefix:           prefix,
		authUsecase:      authUsecase,
		userQueryUsecase: userQueryUsecase,
		accountUsecase:   accountUsecase,
		auth:             auth,
		cookieSecure:     cookieSecure,
		cookieMaxAge:     cookieMaxAge,
	}

	c.registerHandlers()
}

func (c *ctrl) registerHandlers() {
	c.addRoute(http.MethodPost, "/auth/register", http.HandlerFunc(c.register))
	c.addRoute(http.MethodPost, "/auth/login", http.HandlerFunc(c.login))
	c.addRoute(http.MethodPost, "/auth/logout", http.HandlerFunc(c.logout), c.auth.RequireAuth)

	c.addRoute(http.MethodGet, "/users", http.HandlerFunc(c.searchUsers), c.auth.RequireAuth)
	c.addRoute(http.MethodGet, "/users/{user_id}", http.HandlerFunc(c.getUser), c.auth.RequireAuth)
	c.addRoute(http.MethodDelete, "/users/me", http.HandlerFunc(c.deleteMe), c.auth.RequireAuth)
	c.addRoute(http.MethodPut, "/users/me/avatar", http.HandlerFunc(c.uploadAvatar), c.auth.RequireAuth)
	c.addRoute(http.MethodGet, "/users/avatar/{image_path...}", http.HandlerFunc(c.downloadAvatar), c.auth.RequireAuth)
}

func (c *ctrl) addRoute(
	method string,
	path string,
	handler http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	fullPath := c.prefix + path
	c.mux.Handle(method+" "+fullPath, handler)
}
