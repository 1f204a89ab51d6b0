package messageuc

import (
	"context"
	"time"

	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
)

// UseCase serves message history queries and processes inbound
// client-authored messages delivered through the realtime connection
// pipeline. ProcessInbound's signature matches realtime.InboundProcessor
// so a UseCase value can be passed directly to realtime.NewHandler.
type UseCase interface {
	ListHistory(ctx context.Context, req ListHistoryReq) (*ListHistoryResp, error)
	ProcessInbound(ctx context.Context, userID int, data realtime.ChatMessageData) error
}

const defaultHistoryLimit = 50
const maxHistoryLimit = 200

type ListHistoryReq struct {
	ActorID int    `json:"-"`
	ChatID  int    `path:"chat_id"`
	Before  string `query:"before"` // RFC3339 timestamp, exclusive upper bound; empty means unbounded
	Limit   int    `query:"limit"`
}

func (req ListHistoryReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	if req.Limit < 0 || req.Limit > maxHistoryLimit {
		verr = errs.AddFieldError(verr, "limit", "limit must be between 0 and 200")
	}
	if req.Before != "" {
		if _, err := time.Parse(time.RFC3339, req.Before); err != nil {
			verr = errs.AddFieldError(verr, "before", "before must be an RFC3339 timestamp")
		}
	}
	return verr
}

func (req ListHistoryReq) limit() int {
	if req.Limit == 0 {
		return defaultHistoryLimit
	}
	return req.Limit
}

// before parses the validated Before field; call only after Validate passes.
func (req ListHistoryReq) before() *time.Time {
	if req.Before == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, req.Before)
	if err != nil {
		return nil
	}
	return &t
}

type MessageItem struct {
	MessageID int    `json:"message_id"`
	ChatID    int    `json:"chat_id"`
	SenderID  int    `json:"sender_id"`
	Content   string `json:"content"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

type ListHistoryResp struct {
	Messages []MessageItem `json:"messages"`
}
