package domain

import "context"

type ChatType string

const (
	ChatTypeGroup   ChatType = "Group"
	ChatTypePrivate ChatType = "Private"
)

// Chat is a Group or Private conversation. Title and Description are
// only meaningful for Group chats; both are empty for Private.
type Chat struct {
	ID          int
	Type        ChatType
	Title       string
	Description string
}

// ChatRepository is the typed persistence contract for chats.
type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) error
	GetByID(ctx context.Context, id int) (*Chat, error)
	// FindPrivateBetween implements find_private_chat_between(user1,user2).
	FindPrivateBetween(ctx context.Context, userA, userB int) (*Chat, error)
	// Delete cascades memberships and messages at the persistence layer.
	Delete(ctx context.Context, id int) error
}
