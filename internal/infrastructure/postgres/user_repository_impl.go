package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	"github.com/harshu1611/todoAppServer/internal/domain/repository"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// profileColumns is every column but the password hash.
var profileColumns = []string{
	"id", "name", "email", "avatar_public_id", "avatar_url", "verified",
	"otp", "otp_expiry", "reset_password_otp", "reset_password_otp_expire",
	"tasks", "created_at", "updated_at",
}

// taskList is the JSONB tasks column.
type taskList []entity.Task

func (t *taskList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = taskList{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("tasks: unsupported column type %T", src)
	}
}

func (t taskList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type userRow struct {
	ID                     string     `db:"id"`
	Name                   string     `db:"name"`
	Email                  string     `db:"email"`
	Password               string     `db:"password"`
	AvatarPublicID         string     `db:"avatar_public_id"`
	AvatarURL              string     `db:"avatar_url"`
	Verified               bool       `db:"verified"`
	OTP                    *int       `db:"otp"`
	OTPExpiry              *time.Time `db:"otp_expiry"`
	ResetPasswordOTP       *int       `db:"reset_password_otp"`
	ResetPasswordOTPExpire *time.Time `db:"reset_password_otp_expire"`
	Tasks                  taskList   `db:"tasks"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

func (r userRow) toEntity() *entity.User {
	tasks := []entity.Task(r.Tasks)
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return &entity.User{
		ID:                     r.ID,
		Name:                   r.Name,
		Email:                  r.Email,
		Password:               r.Password,
		Avatar:                 entity.Avatar{PublicID: r.AvatarPublicID, URL: r.AvatarURL},
		Verified:               r.Verified,
		OTP:                    r.OTP,
		OTPExpiry:              r.OTPExpiry,
		ResetPasswordOTP:       r.ResetPasswordOTP,
		ResetPasswordOTPExpire: r.ResetPasswordOTPExpire,
		Tasks:                  tasks,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// UserRepository keeps one row per user with the task list in a JSONB column.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	query, args, err := psql.Insert("users").
		Columns(
			"id", "name", "email", "password", "avatar_public_id", "avatar_url", "verified",
			"otp", "otp_expiry", "reset_password_otp", "reset_password_otp_expire",
			"tasks", "created_at", "updated_at",
		).
		Values(
			u.ID, u.Name, u.Email, u.Password, u.Avatar.PublicID, u.Avatar.URL, u.Verified,
			u.OTP, u.OTPExpiry, u.ResetPasswordOTP, u.ResetPasswordOTPExpire,
			taskList(u.Tasks), u.CreatedAt, u.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, psql.Select(profileColumns...).From("users").Where(sq.Eq{"id": id}))
}

// GetByEmail includes the password hash for credential comparison.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	cols := append([]string{"password"}, profileColumns...)
	return r.getOne(ctx, psql.Select(cols...).From("users").Where(sq.Eq{"email": email}))
}

func (r *UserRepository) GetByResetOTP(ctx context.Context, otp int, now time.Time) (*entity.User, error) {
	return r.getOne(ctx, psql.Select(profileColumns...).
		From("users").
		Where(sq.Eq{"reset_password_otp": otp}).
		Where(sq.Gt{"reset_password_otp_expire": now}).
		Limit(1))
}

// Update rewrites the row. An empty Password keeps the stored hash.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	query, args, err := updateQuery(u)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func updateQuery(u *entity.User) (string, []any, error) {
	set := map[string]any{
		"name":                      u.Name,
		"email":                     u.Email,
		"avatar_public_id":          u.Avatar.PublicID,
		"avatar_url":                u.Avatar.URL,
		"verified":                  u.Verified,
		"otp":                       u.OTP,
		"otp_expiry":                u.OTPExpiry,
		"reset_password_otp":        u.ResetPasswordOTP,
		"reset_password_otp_expire": u.ResetPasswordOTPExpire,
		"tasks":                     taskList(u.Tasks),
		"updated_at":                u.UpdatedAt,
	}
	if u.Password != "" {
		set["password"] = u.Password
	}
	return psql.Update("users").SetMap(set).Where(sq.Eq{"id": u.ID}).ToSql()
}

func (r *UserRepository) getOne(ctx context.Context, b sq.SelectBuilder) (*entity.User, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
