package http

import (
	"net/http"

	authmw "github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/pkg/httpx"
)

func (c *ctrl) serveWs(w http.ResponseWriter, r *http.Request) {
	userID, ok := authmw.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if c.realtimeHandler == nil {
		httpx.WriteResponse(http.StatusServiceUnavailable, w, nil)
		return
	}

	c.realtimeHandler.ServeHTTP(w, r, userID)
}
