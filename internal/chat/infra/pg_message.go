package infra

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/pg"
)

type PgMessageRepo struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepo(pool *pgxpool.Pool) *PgMessageRepo {
	return &PgMessageRepo{
		pool: pool,
	}
}

func (r *PgMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	const op = "pgmessage.Create"

	query := `
		INSERT INTO messages (chat_id, sender_id, content, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.pool.QueryRow(
		ctx,
		query,
		message.ChatID,
		message.SenderID,
		message.Content,
		message.Kind,
		message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

func (r *PgMessageRepo) FindInChat(
	ctx context.Context,
	chatID int,
	visibleFrom time.Time,
	before *time.Time,
	limit int,
) ([]*domain.Message, error) {
	const op = "pgmessage.FindInChat"

	query := `
		SELECT id, chat_id, sender_id, content, kind, created_at
		FROM messages
		WHERE chat_id = $1 AND created_at >= $2 AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, chatID, visibleFrom, before, limit)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.SenderID,
			&message.Content,
			&message.Kind,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, pg.WrapRepoError(op, err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return messages, nil
}
