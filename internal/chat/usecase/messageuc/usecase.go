package messageuc

import (
	"context"
	"errors"
	"time"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/val"
)

type useCase struct {
	messageRepo    domain.MessageRepository
	membershipRepo domain.MembershipRepository
	fabric         *realtime.Fabric
	relay          *realtime.Relay
}

func New(
	messageRepo domain.MessageRepository,
	membershipRepo domain.MembershipRepository,
	fabric *realtime.Fabric,
	relay *realtime.Relay,
) UseCase {
	return &useCase{
		messageRepo:    messageRepo,
		membershipRepo: membershipRepo,
		fabric:         fabric,
		relay:          relay,
	}
}

func (uc *useCase) ListHistory(ctx context.Context, req ListHistoryReq) (*ListHistoryResp, error) {
	const op = "messageuc.ListHistory"

	membership, err := uc.membershipRepo.Get(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return nil, errs.Wrap(op, errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember))
	}

	messages, err := uc.messageRepo.FindInChat(ctx, req.ChatID, membership.MessagesVisibleFrom, req.before(), req.limit())
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	items := make([]MessageItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, MessageItem{
			MessageID: m.ID,
			ChatID:    m.ChatID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Kind:      string(m.Kind),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return &ListHistoryResp{Messages: items}, nil
}

// ProcessInbound implements realtime.InboundProcessor: it rejects a
// client-asserted SystemMessage, validates the message shape, enforces the
// anti-spoof sender check, authorizes membership, publishes, then persists
// a client-authored message, in that order, so a live recipient sees the
// message with minimal added latency. Persistence failure after a
// successful publish is reported back to the sender as an Error event; the
// message is not retried.
func (uc *useCase) ProcessInbound(ctx context.Context, userID int, data realtime.ChatMessageData) error {
	if domain.MessageKind(data.MessageType) == domain.MessageKindSystem {
		return errors.New("system messages not allowed")
	}

	if err := val.ValidateMessageContent(data.Content); err != nil {
		return errors.New("malformed message")
	}
	if _, err := time.Parse(time.RFC3339, data.CreatedAt); err != nil {
		return errors.New("malformed message")
	}

	if data.SenderID != userID {
		return errors.New("malformed message")
	}

	if _, err := uc.membershipRepo.Get(ctx, data.ChatID, userID); err != nil {
		return errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember)
	}

	now := time.Now()
	event := &realtime.Event{
		Type: realtime.EventChatMessage,
		Data: realtime.MessageData{
			ChatID:      data.ChatID,
			SenderID:    userID,
			Content:     data.Content,
			MessageType: string(domain.MessageKindUser),
			CreatedAt:   now,
		},
	}

	if err := uc.fabric.Publish(data.ChatID, event); err != nil && !errors.Is(err, realtime.ErrNoReceivers) {
		return err
	}
	uc.relay.PublishRemote(data.ChatID, event)

	msg := &domain.Message{
		ChatID:    data.ChatID,
		SenderID:  userID,
		Content:   data.Content,
		Kind:      domain.MessageKindUser,
		CreatedAt: now,
	}
	return uc.messageRepo.Create(ctx, msg)
}
