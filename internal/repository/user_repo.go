package repository

import (
	"context"
	"errors"
	"fmt"

	"user_center/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateAccount is returned when an insert trips the UNIQUE
// constraint on users.account. The constraint, not the service-level
// pre-check, is what closes the check-then-insert race.
var ErrDuplicateAccount = errors.New("account already exists")

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it too, which is how the repository is tested.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByAccount(ctx context.Context, account string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	CountByNickname(ctx context.Context, name string) (int64, error)
	SearchByNickname(ctx context.Context, name string, limit, offset int64) ([]model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, account, password_hash, nickname, avatar_id, gender, phone, email, status, role, is_deleted, created_at, updated_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Account, &u.PasswordHash, &u.Nickname, &u.AvatarID, &u.Gender,
		&u.Phone, &u.Email, &u.Status, &u.Role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
	)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (account, password_hash, role)
            VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, user.Account, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByAccount retrieves a user by account. Not found is (nil, nil);
// the service layer decides what that means.
func (r *userRepository) FindByAccount(ctx context.Context, account string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE account = $1 AND is_deleted = FALSE`
	err := scanUser(r.db.QueryRow(ctx, sql, account), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by account: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = FALSE`
	err := scanUser(r.db.QueryRow(ctx, sql, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Update writes the full mutable column set. The store owns updated_at;
// whatever the caller put in the struct is superseded by NOW().
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users
            SET account = $2, password_hash = $3, nickname = $4, avatar_id = $5, gender = $6,
                phone = $7, email = $8, status = $9, role = $10, is_deleted = $11, created_at = $12,
                updated_at = NOW()
            WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		user.ID, user.Account, user.PasswordHash, user.Nickname, user.AvatarID, user.Gender,
		user.Phone, user.Email, user.Status, user.Role, user.IsDeleted, user.CreatedAt,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user not found for update")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// CountByNickname counts live users whose nickname contains name.
// A blank name matches every live user. The name is interpolated into the
// ILIKE pattern unescaped, so % and _ act as wildcards, matching the
// like-filter contract SearchByNickname shares.
func (r *userRepository) CountByNickname(ctx context.Context, name string) (int64, error) {
	var total int64
	sql := `SELECT COUNT(*) FROM users
            WHERE is_deleted = FALSE AND ($1 = '' OR nickname ILIKE '%' || $1 || '%')`
	if err := r.db.QueryRow(ctx, sql, name).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// SearchByNickname returns one page of live users whose nickname contains
// name, ordered by id for stable paging.
func (r *userRepository) SearchByNickname(ctx context.Context, name string, limit, offset int64) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users
            WHERE is_deleted = FALSE AND ($1 = '' OR nickname ILIKE '%' || $1 || '%')
            ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Account, &u.PasswordHash, &u.Nickname, &u.AvatarID, &u.Gender,
			&u.Phone, &u.Email, &u.Status, &u.Role, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
