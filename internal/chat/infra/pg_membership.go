package infra

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/pg"
)

type PgMembershipRepo struct {
	pool *pgxpool.Pool
}

func NewPgMembershipRepo(pool *pgxpool.Pool) *PgMembershipRepo {
	return &PgMembershipRepo{
		pool: pool,
	}
}

const membershipColumns = `chat_id, user_id, role, member_since, messages_visible_from, messages_received_until`

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := row.Scan(&m.ChatID, &m.UserID, &m.Role, &m.MemberSince, &m.MessagesVisibleFrom, &m.MessagesReceivedUntil)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PgMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	const op = "pgmembership.Create"

	query := `
		INSERT INTO memberships (chat_id, user_id, role, member_since, messages_visible_from, messages_received_until)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, m.ChatID, m.UserID, m.Role, m.MemberSince, m.MessagesVisibleFrom, m.MessagesReceivedUntil)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

func (r *PgMembershipRepo) CreateMany(ctx context.Context, ms []*domain.Membership) error {
	const op = "pgmembership.CreateMany"

	return pg.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO memberships (chat_id, user_id, role, member_since, messages_visible_from, messages_received_until)
			VALUES ($1, $2, $3, $4, $5, $6)`

		for _, m := range ms {
			_, err := tx.Exec(ctx, query, m.ChatID, m.UserID, m.Role, m.MemberSince, m.MessagesVisibleFrom, m.MessagesReceivedUntil)
			if err != nil {
				return pg.WrapRepoError(op, err)
			}
		}
		return nil
	})
}

func (r *PgMembershipRepo) Get(ctx context.Context, chatID, userID int) (*domain.Membership, error) {
	const op = "pgmembership.Get"

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE chat_id = $1 AND user_id = $2`

	m, err := scanMembership(r.pool.QueryRow(ctx, query, chatID, userID))
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return m, nil
}

func (r *PgMembershipRepo) FindByUser(ctx context.Context, userID int) ([]*domain.Membership, error) {
	const op = "pgmembership.FindByUser"

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1 ORDER BY member_since ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	defer rows.Close()

	return scanMemberships(rows, op)
}

func (r *PgMembershipRepo) FindByChat(ctx context.Context, chatID int) ([]*domain.Membership, error) {
	const op = "pgmembership.FindByChat"

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE chat_id = $1 ORDER BY member_since ASC`

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	defer rows.Close()

	return scanMemberships(rows, op)
}

func scanMemberships(rows pgx.Rows, op string) ([]*domain.Membership, error) {
	memberships := make([]*domain.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, pg.WrapRepoError(op, err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	return memberships, nil
}

func (r *PgMembershipRepo) UpdateRole(ctx context.Context, chatID, userID int, role domain.Role) error {
	const op = "pgmembership.UpdateRole"

	query := `UPDATE memberships SET role = $1 WHERE chat_id = $2 AND user_id = $3`

	_, err := r.pool.Exec(ctx, query, role, chatID, userID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

// TransferOwnership swaps roles in one transaction: fromUser becomes Admin,
// toUser becomes Owner. A missing row for either user fails with NotFound.
func (r *PgMembershipRepo) TransferOwnership(ctx context.Context, chatID, fromUser, toUser int) error {
	const op = "pgmembership.TransferOwnership"

	return pg.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE memberships SET role = $1 WHERE chat_id = $2 AND user_id = $3`,
			domain.RoleAdmin, chatID, fromUser)
		if err != nil {
			return pg.WrapRepoError(op, err)
		}
		if tag.RowsAffected() == 0 {
			return errs.Wrap(op, errs.ErrNotFound)
		}

		tag, err = tx.Exec(ctx, `UPDATE memberships SET role = $1 WHERE chat_id = $2 AND user_id = $3`,
			domain.RoleOwner, chatID, toUser)
		if err != nil {
			return pg.WrapRepoError(op, err)
		}
		if tag.RowsAffected() == 0 {
			return errs.Wrap(op, errs.ErrNotFound)
		}

		return nil
	})
}

func (r *PgMembershipRepo) Delete(ctx context.Context, chatID, userID int) error {
	const op = "pgmembership.Delete"

	_, err := r.pool.Exec(ctx, `DELETE FROM memberships WHERE chat_id = $1 AND user_id = $2`, chatID, userID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}
