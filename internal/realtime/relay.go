package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Relay republishes Fabric.Publish calls onto a NATS subject per chat and
// republishes incoming NATS messages back into the local Fabric, so a
// chat's subscribers spread across multiple instances still see every
// event. A disabled relay is a nil *Relay: PublishRemote and Close do
// nothing on it, so events reach only the local Fabric, exactly as in a
// single-instance deployment.
type Relay struct {
	conn          *nats.Conn
	subjectPrefix string
	fabric        *Fabric
	logger        *slog.Logger
}

// NewRelay connects to url and subscribes to subjectPrefix.> for cross-instance
// fan-in. An empty url disables the relay: NewRelay returns (nil, nil), and
// the nil *Relay is safe to pass around, leaving Fabric as the sole
// broadcast path. The connection uses NoEcho, so an instance does not
// receive its own relayed events back.
func NewRelay(url, subjectPrefix string, fabric *Fabric, logger *slog.Logger) (*Relay, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.NoEcho())
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	r := &Relay{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		fabric:        fabric,
		logger:        logger,
	}

	_, err = conn.Subscribe(subjectPrefix+".>", r.handleRemote)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to relay subject: %w", err)
	}

	return r, nil
}

func (r *Relay) Close() {
	if r != nil && r.conn != nil {
		r.conn.Close()
	}
}

type relayMessage struct {
	ChatID int    `json:"chat_id"`
	Event  *Event `json:"event"`
}

// PublishRemote announces event on the relay subject for chatID so other
// instances' Fabric also deliver it; it does not touch the local Fabric,
// which the caller already published to directly.
func (r *Relay) PublishRemote(chatID int, event *Event) {
	if r == nil {
		return
	}

	data, err := json.Marshal(relayMessage{ChatID: chatID, Event: event})
	if err != nil {
		r.logger.Error("marshal relay message", "error", err)
		return
	}

	subject := fmt.Sprintf("%s.%d", r.subjectPrefix, chatID)
	if err := r.conn.Publish(subject, data); err != nil {
		r.logger.Error("publish relay message", "error", err)
	}
}

func (r *Relay) handleRemote(msg *nats.Msg) {
	var rm relayMessage
	if err := json.Unmarshal(msg.Data, &rm); err != nil {
		r.logger.Error("unmarshal relay message", "error", err)
		return
	}

	_ = r.fabric.Publish(rm.ChatID, rm.Event)
}
