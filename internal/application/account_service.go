package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	repo "github.com/harshu1611/todoAppServer/internal/domain/repository"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
)

const (
	subjectVerify = "Verify Your Account"
	subjectReset  = "Request to Reset password"
)

// Notifier delivers OTP emails.
type Notifier interface {
	SendOTPEmail(ctx context.Context, to, subject string, otp int) error
}

// AvatarUploader stores a locally staged avatar file remotely.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, localPath string) (entity.Avatar, error)
}

// TokenRevoker remembers session token ids that must no longer be accepted.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

type Service struct {
	Repo        repo.UserRepository
	JWT         *helpers.JWTManager
	Mail        Notifier
	Media       AvatarUploader
	Revoker     TokenRevoker
	Logger      *logrus.Logger
	OTPTTL      time.Duration
	ResetOTPTTL time.Duration

	now    func() time.Time
	genOTP func() (int, error)
}

type Option func(*Service)

// WithClock replaces time.Now for OTP expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOTPGenerator replaces the crypto/rand OTP source.
func WithOTPGenerator(gen func() (int, error)) Option {
	return func(s *Service) { s.genOTP = gen }
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, mail Notifier, media AvatarUploader, revoker TokenRevoker, logger *logrus.Logger, otpTTL, resetOTPTTL time.Duration, opts ...Option) *Service {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	s := &Service{
		Repo:        r,
		JWT:         jwt,
		Mail:        mail,
		Media:       media,
		Revoker:     revoker,
		Logger:      logger,
		OTPTTL:      otpTTL,
		ResetOTPTTL: resetOTPTTL,
		now:         time.Now,
		genOTP:      helpers.GenOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// AvatarPath is a staged local file; the caller removes it afterwards.
	AvatarPath string
}

// Register creates an unverified user and emails the verification OTP.
// An avatar upload failure aborts before anything is written. A mail failure
// after the user is stored returns the session together with ErrDelivery.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" || !helpers.PasswordFits(in.Password) {
		return nil, ErrInvalidInput
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	otp, err := s.genOTP()
	if err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var avatar entity.Avatar
	if in.AvatarPath != "" {
		avatar, err = s.Media.UploadAvatar(ctx, in.AvatarPath)
		if err != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("avatar upload failed")
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
	}

	now := s.now()
	expiry := now.Add(s.OTPTTL)
	u := &entity.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Avatar:    avatar,
		OTP:       &otp,
		OTPExpiry: &expiry,
		Tasks:     []entity.Task{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, err
	}
	accountStats.Add(statRegistered, 1)

	sess, err := s.session(u)
	if err != nil {
		return nil, err
	}
	if err := s.sendOTP(ctx, u, subjectVerify, otp); err != nil {
		return sess, err
	}
	return sess, nil
}

// Verify confirms the pending verification OTP. The OTP is still valid at
// exactly its expiry instant.
func (s *Service) Verify(ctx context.Context, userID string, otp int) (*Session, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.PendingVerification() {
		return nil, ErrAlreadyVerified
	}
	if *u.OTP != otp {
		return nil, ErrInvalidOtp
	}
	now := s.now()
	if u.OTPExpiry != nil && now.After(*u.OTPExpiry) {
		return nil, ErrOtpExpired
	}

	u.MarkVerified()
	u.UpdatedAt = now
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	accountStats.Add(statVerified, 1)
	return s.session(u)
}

// ResendOTP replaces the verification OTP of an unverified user and emails it.
func (s *Service) ResendOTP(ctx context.Context, userID string) error {
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	otp, err := s.genOTP()
	if err != nil {
		return err
	}
	now := s.now()
	expiry := now.Add(s.OTPTTL)
	u.OTP = &otp
	u.OTPExpiry = &expiry
	u.UpdatedAt = now
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	return s.sendOTP(ctx, u, subjectVerify, otp)
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// Login does not require a verified account.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		// keep unknown-email timing close to a wrong password
		dummyHashOnce.Do(func() { dummyHash, _ = helpers.HashPassword("not-a-real-password") })
		helpers.CompareHashAndPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	accountStats.Add(statLogins, 1)
	return s.session(u)
}

// Logout revokes the token id until its natural expiry. Without a revoker
// the token is only dropped client side.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.Revoker == nil || tokenID == "" {
		return nil
	}
	return s.Revoker.Revoke(ctx, tokenID, expiresAt)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*PublicProfile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := ToProfile(u)
	return &p, nil
}

// RefreshSession reissues the session token on a profile read, so an active
// user's cookie keeps sliding forward.
func (s *Service) RefreshSession(ctx context.Context, userID string) (*Session, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) AddTask(ctx context.Context, userID, title, description string) (*PublicProfile, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u.Tasks = append(u.Tasks, entity.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
	})
	u.UpdatedAt = now
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	p := ToProfile(u)
	return &p, nil
}

// RemoveTask deletes the task with taskID. An unknown id is a no-op success.
func (s *Service) RemoveTask(ctx context.Context, userID, taskID string) (*PublicProfile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := u.TaskIndex(taskID)
	if idx >= 0 {
		u.Tasks = append(u.Tasks[:idx], u.Tasks[idx+1:]...)
		u.UpdatedAt = s.now()
		if err := s.Repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	p := ToProfile(u)
	return &p, nil
}

// ToggleTask flips the completed flag of the task whose id equals taskID.
func (s *Service) ToggleTask(ctx context.Context, userID, taskID string) (*PublicProfile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := u.TaskIndex(taskID)
	if idx < 0 {
		return nil, ErrTaskNotFound
	}
	u.Tasks[idx].Completed = !u.Tasks[idx].Completed
	u.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	p := ToProfile(u)
	return &p, nil
}

// RequestPasswordReset opens a reset window and emails its OTP.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	otp, err := s.genOTP()
	if err != nil {
		return err
	}
	now := s.now()
	expiry := now.Add(s.ResetOTPTTL)
	u.ResetPasswordOTP = &otp
	u.ResetPasswordOTPExpire = &expiry
	u.UpdatedAt = now
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	accountStats.Add(statResetRequests, 1)
	return s.sendOTP(ctx, u, subjectReset, otp)
}

// ConfirmPasswordReset sets a new password for the user holding a live reset OTP.
func (s *Service) ConfirmPasswordReset(ctx context.Context, otp int, newPassword string) error {
	if newPassword == "" || !helpers.PasswordFits(newPassword) {
		return ErrInvalidInput
	}
	now := s.now()
	u, err := s.Repo.GetByResetOTP(ctx, otp, now)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrInvalidOrExpired
	}
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ClearPasswordReset()
	u.UpdatedAt = now
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	accountStats.Add(statResets, 1)
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) session(u *entity.User) (*Session, error) {
	tok, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, err
	}
	return &Session{Profile: ToProfile(u), Token: tok}, nil
}

func (s *Service) sendOTP(ctx context.Context, u *entity.User, subject string, otp int) error {
	if err := s.Mail.SendOTPEmail(ctx, u.Email, subject, otp); err != nil {
		accountStats.Add(statMailFailures, 1)
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "subject": subject}).Warn("otp email failed")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
