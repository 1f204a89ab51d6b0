package http

import (
	"net/http"

	authmw "github.com/code19m/pulsechat/internal/auth/middleware"
	"github.com/code19m/pulsechat/internal/chat/usecase/messageuc"
	"github.com/code19m/pulsechat/pkg/httpx"
)

func (c *ctrl) listMessages(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.BindRequest[messageuc.ListHistoryReq](r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	req.ActorID, _ = authmw.UserIDFromContext(r.Context())

	resp, err := c.messageUsecase.ListHistory(r.Context(), req)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteResponse(http.StatusOK, w, resp)
}
