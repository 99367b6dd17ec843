package repository

import (
	"context"
	"testing"
	"time"

	"user_center/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func fullUserRow(id int64, account string, role model.Role, nickname *string, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "account", "password_hash", "nickname", "avatar_id", "gender",
		"phone", "email", "status", "role", "is_deleted", "created_at", "updated_at",
	}).AddRow(
		id, account, "hashedpw", nickname, (*int64)(nil), int16(0),
		(*string)(nil), (*string)(nil), int32(0), role, false, now, now,
	)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice123", "hashedpw", model.RoleDefault).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	user := &model.User{Account: "alice123", PasswordHash: "hashedpw", Role: model.RoleDefault}
	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateAccount(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice123", "hashedpw", model.RoleDefault).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	user := &model.User{Account: "alice123", PasswordHash: "hashedpw", Role: model.RoleDefault}
	err := repo.Create(context.Background(), user)

	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByAccount(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()
	nick := "Allie"

	mock.ExpectQuery("SELECT (.+) FROM users WHERE account").
		WithArgs("alice123").
		WillReturnRows(fullUserRow(1, "alice123", model.RoleDefault, &nick, now))

	user, err := repo.FindByAccount(context.Background(), "alice123")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice123", user.Account)
	assert.Equal(t, "hashedpw", user.PasswordHash)
	require.NotNil(t, user.Nickname)
	assert.Equal(t, "Allie", *user.Nickname)
	assert.Nil(t, user.AvatarID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByAccount_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE account").
		WithArgs("nobody123").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByAccount(context.Background(), "nobody123")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	mock, repo := newMock(t)
	created := time.Now().Add(-time.Hour)
	stamped := time.Now()
	nick := "Allie"

	user := &model.User{
		ID: 1, Account: "alice123", PasswordHash: "hashedpw", Nickname: &nick,
		Gender: 1, Status: 0, Role: model.RoleDefault, CreatedAt: created,
	}

	mock.ExpectQuery("UPDATE users").
		WithArgs(user.ID, user.Account, user.PasswordHash, user.Nickname, user.AvatarID,
			user.Gender, user.Phone, user.Email, user.Status, user.Role, user.IsDeleted, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(stamped))

	err := repo.Update(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, stamped, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_DuplicateAccount(t *testing.T) {
	mock, repo := newMock(t)

	user := &model.User{ID: 1, Account: "taken123", PasswordHash: "hashedpw"}
	mock.ExpectQuery("UPDATE users").
		WithArgs(user.ID, user.Account, user.PasswordHash, user.Nickname, user.AvatarID,
			user.Gender, user.Phone, user.Email, user.Status, user.Role, user.IsDeleted, user.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err := repo.Update(context.Background(), user)

	assert.ErrorIs(t, err, ErrDuplicateAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountByNickname(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("player").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	total, err := repo.CountByNickname(context.Background(), "player")

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SearchByNickname(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()
	nickA, nickB := "playerA", "playerB"

	rows := pgxmock.NewRows([]string{
		"id", "account", "password_hash", "nickname", "avatar_id", "gender",
		"phone", "email", "status", "role", "is_deleted", "created_at", "updated_at",
	}).
		AddRow(int64(1), "alice123", "hashedpw", &nickA, (*int64)(nil), int16(0),
			(*string)(nil), (*string)(nil), int32(0), model.RoleDefault, false, now, now).
		AddRow(int64(2), "bobby123", "hashedpw", &nickB, (*int64)(nil), int16(1),
			(*string)(nil), (*string)(nil), int32(0), model.RoleAdmin, false, now, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("player", int64(10), int64(0)).
		WillReturnRows(rows)

	users, err := repo.SearchByNickname(context.Background(), "player", 10, 0)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "playerA", *users[0].Nickname)
	assert.Equal(t, model.RoleAdmin, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
