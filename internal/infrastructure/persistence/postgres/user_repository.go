package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/domain"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
)

const (
	createUserSQL = `INSERT INTO users (id, username, email, password_hash, confirmed, role, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getUserByEmailSQL = `SELECT id, username, email, password_hash, confirmed, refresh_token, role, avatar_url, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1)`

	setRefreshTokenSQL = `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`

	// The WHERE clause on the old value makes this a compare-and-swap: a
	// single row UPDATE is atomic in postgres, so of N concurrent
	// rotations presenting the same token exactly one matches.
	rotateRefreshTokenSQL = `UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2) AND refresh_token = $3`

	setConfirmedSQL = `UPDATE users SET confirmed = TRUE, updated_at = NOW() WHERE LOWER(email) = LOWER($1)`

	updateAvatarSQL = `UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)
		RETURNING id, username, email, password_hash, confirmed, refresh_token, role, avatar_url, created_at, updated_at`
)

// UserRepository implements ports.UserRepository on a pgx pool.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		user.ID.UUID, user.Username, user.Email, user.PasswordHash,
		user.Confirmed, string(user.Role), user.AvatarURL,
		user.CreatedAt, user.UpdatedAt,
	)
	// Two signups can race past the use case's duplicate check; the
	// unique index on LOWER(email) is the arbiter.
	if isUniqueViolation(err) {
		return domerrors.ErrUserExists
	}
	return err
}

// SQLSTATE 23505 = unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, getUserByEmailSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, email string, token *string) error {
	_, err := r.pool.Exec(ctx, setRefreshTokenSQL, token, email)
	return err
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, email, presented, next string) (bool, error) {
	tag, err := r.pool.Exec(ctx, rotateRefreshTokenSQL, next, email, presented)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) SetConfirmed(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, setConfirmedSQL, email)
	return err
}

func (r *UserRepository) UpdateAvatarURL(ctx context.Context, email, url string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, updateAvatarSQL, url, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(
		&u.ID.UUID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Confirmed, &u.RefreshToken, &role, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
