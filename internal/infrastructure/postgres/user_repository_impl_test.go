package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	"github.com/harshu1611/todoAppServer/internal/domain/repository"
)

func newMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "pgx")), mock
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func profileRow() *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).AddRow(
		"u1", "Ann", "ann@x.com", "todoApp/a.jpg", "https://cdn/a.jpg", true,
		nil, nil, nil, nil,
		[]byte(`[{"id":"t1","title":"groceries","description":"milk","completed":true,"createdAt":"2024-05-01T12:00:00Z"}]`),
		created, created,
	)
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, email, .+ FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(profileRow())

	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Empty(t, u.Password)
	assert.Equal(t, "https://cdn/a.jpg", u.Avatar.URL)
	assert.Nil(t, u.OTP)
	require.Len(t, u.Tasks, 1)
	assert.Equal(t, entity.Task{ID: "t1", Title: "groceries", Description: "milk", Completed: true, CreatedAt: created}, u.Tasks[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailSelectsPassword(t *testing.T) {
	repo, mock := newMock(t)
	cols := append([]string{"password"}, profileColumns...)
	mock.ExpectQuery(`SELECT password, id, .+ FROM users WHERE email = \$1`).
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"hash", "u1", "Ann", "ann@x.com", "", "", false,
			123456, created, nil, nil, "[]", created, created,
		))

	u, err := repo.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.Password)
	require.NotNil(t, u.OTP)
	assert.Equal(t, 123456, *u.OTP)
	assert.Empty(t, u.Tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetByResetOTP(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE reset_password_otp = \$1 AND reset_password_otp_expire > \$2 LIMIT 1`).
		WithArgs(42, created).
		WillReturnRows(profileRow())

	u, err := repo.GetByResetOTP(context.Background(), 42, created)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entity.User{ID: "u1", Email: "ann@x.com", CreatedAt: created, UpdatedAt: created})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), &entity.User{ID: "u1", Email: "ann@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUpdate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`UPDATE users SET .+ WHERE id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(context.Background(), &entity.User{ID: "u1"}))

	mock.ExpectExec(`UPDATE users SET .+ WHERE id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), &entity.User{ID: "missing"}), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQueryKeepsStoredPassword(t *testing.T) {
	query, _, err := updateQuery(&entity.User{ID: "u1"})
	require.NoError(t, err)
	assert.NotContains(t, query, "password = ")

	query, args, err := updateQuery(&entity.User{ID: "u1", Password: "newhash"})
	require.NoError(t, err)
	assert.Contains(t, query, "password = $")
	assert.Contains(t, args, "newhash")
}

func TestTaskListColumn(t *testing.T) {
	v, err := taskList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var tl taskList
	require.NoError(t, tl.Scan(nil))
	assert.NotNil(t, tl)
	assert.Error(t, tl.Scan(42))
}
