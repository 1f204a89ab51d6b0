package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/pg"
)

type PgChatRepo struct {
	pool *pgxpool.Pool
}

func NewPgChatRepo(pool *pgxpool.Pool) *PgChatRepo {
	return &PgChatRepo{
		pool: pool,
	}
}

func (r *PgChatRepo) Create(ctx context.Context, chat *domain.Chat) error {
	const op = "pgchat.Create"

	query := `
		INSERT INTO chats (type, title, description)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, chat.Type, chat.Title, chat.Description).Scan(&chat.ID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

func (r *PgChatRepo) GetByID(ctx context.Context, id int) (*domain.Chat, error) {
	const op = "pgchat.GetByID"

	query := `
		SELECT id, type, title, description
		FROM chats
		WHERE id = $1`

	chat := &domain.Chat{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&chat.ID, &chat.Type, &chat.Title, &chat.Description)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return chat, nil
}

func (r *PgChatRepo) FindPrivateBetween(ctx context.Context, userA, userB int) (*domain.Chat, error) {
	const op = "pgchat.FindPrivateBetween"

	query := `
		SELECT c.id, c.type, c.title, c.description
		FROM chats c
		INNER JOIN memberships m1 ON c.id = m1.chat_id AND m1.user_id = $1
		INNER JOIN memberships m2 ON c.id = m2.chat_id AND m2.user_id = $2
		WHERE c.type = $3`

	chat := &domain.Chat{}
	err := r.pool.QueryRow(ctx, query, userA, userB, domain.ChatTypePrivate).Scan(
		&chat.ID, &chat.Type, &chat.Title, &chat.Description,
	)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return chat, nil
}

// Delete relies on ON DELETE CASCADE foreign keys from memberships and
// messages to chats, so a single statement clears all dependent rows.
func (r *PgChatRepo) Delete(ctx context.Context, id int) error {
	const op = "pgchat.Delete"

	_, err := r.pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}
