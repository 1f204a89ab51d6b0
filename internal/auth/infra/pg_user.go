package infra

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/pg"
)

type PgUserRepo struct {
	pool *pgxpool.Pool
}

func NewPgUserRepo(pool *pgxpool.Pool) *PgUserRepo {
	return &PgUserRepo{
		pool: pool,
	}
}

func (r *PgUserRepo) Create(ctx context.Context, user *domain.User) error {
	const op = "pguser.Create"

	query := `
		INSERT INTO users (username, password_hash, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.pool.QueryRow(
		ctx,
		query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	return nil
}

func (r *PgUserRepo) GetByID(ctx context.Context, id int) (*domain.User, error) {
	const op = "pguser.GetByID"

	query := `
		SELECT id, username, password_hash, email, created_at
		FROM users
		WHERE id = $1`

	user := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return user, nil
}

func (r *PgUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const op = "pguser.GetByUsername"

	query := `
		SELECT id, username, password_hash, email, created_at
		FROM users
		WHERE username = $1`

	user := &domain.User{}
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return user, nil
}

func (r *PgUserRepo) SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.User, error) {
	const op = "pguser.SearchByUsernamePrefix"

	query := `
		SELECT id, username, password_hash, email, created_at
		FROM users
		WHERE username ILIKE $1 AND username != $2
		ORDER BY username
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, prefix+"%", domain.DeletedUsername, limit)
	if err != nil {
		return nil, pg.WrapRepoError(op, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt); err != nil {
			return nil, pg.WrapRepoError(op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, pg.WrapRepoError(op, err)
	}

	return users, nil
}

func (r *PgUserRepo) Update(ctx context.Context, user *domain.User) error {
	const op = "pguser.Update"

	query := `
		UPDATE users
		SET username = $1, password_hash = $2, email = $3
		WHERE id = $4`

	result, err := r.pool.Exec(
		ctx,
		query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.ID,
	)
	if err != nil {
		return pg.WrapRepoError(op, err)
	}

	if result.RowsAffected() == 0 {
		return errs.Wrap(op, errors.New("no rows affected"))
	}

	return nil
}
