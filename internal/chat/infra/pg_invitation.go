package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/pg"
)

type PgInvitationRepo struct {
	pool *pgxpool.Pool
}

func NewPgInvitationRepo(pool *pgxpool.Pool) *PgInvitationRepo {
	return &PgInvitationRepo{
		pool: pool,
	}
}

func (r *PgInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	const op = "pginvitation.Create"

	query := `
		INSERT INTO invitations (chat_id, invited_user_id, inviting_user_id, state, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, inv.ChatID, inv.InvitedUserID, inv.InvitingUserID, inv.State, inv.CreatedAt).
		Scan(&inv.ID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

func (r *PgInvitationRepo) Get(ctx context.Context, id int) (*domain.Invitation, error) {
	const op = "pginvitation.Get"

	query := `
		SELECT id, chat_id, invited_user_id, inviting_user_id, state, created_at
		FROM invitations
		WHERE id = $1`

	inv := &domain.Invitation{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.ChatID, &inv.InvitedUserID, &inv.InvitingUserID, &inv.State, &inv.CreatedAt,
	)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return inv, nil
}

func (r *PgInvitationRepo) HasPending(ctx context.Context, chatID, invitedUserID int) (bool, error) {
	const op = "pginvitation.HasPending"

	query := `SELECT EXISTS(SELECT 1 FROM invitations WHERE chat_id = $1 AND invited_user_id = $2 AND state = $3)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, chatID, invitedUserID, domain.InvitationPending).Scan(&exists)
	if err != nil {
		return false, pg.WrapRepoError(op, err)
	}

	return exists, nil
}

func (r *PgInvitationRepo) FindPendingForUser(ctx context.Context, userID int) ([]*domain.Invitation, error) {
	const op = "pginvitation.FindPendingForUser"

	query := `
		SELECT id, chat_id, invited_user_id, inviting_user_id, state, created_at
		FROM invitations
		WHERE invited_user_id = $1 AND state = $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID, domain.InvitationPending)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	defer rows.Close()

	invitations := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		err := rows.Scan(&inv.ID, &inv.ChatID, &inv.InvitedUserID, &inv.InvitingUserID, &inv.State, &inv.CreatedAt)
		if err != nil {
			return nil, pg.WrapRepoError(op, err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return invitations, nil
}

func (r *PgInvitationRepo) UpdateState(ctx context.Context, id int, state domain.InvitationState) error {
	const op = "pginvitation.UpdateState"

	_, err := r.pool.Exec(ctx, `UPDATE invitations SET state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}
