package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	"github.com/harshu1611/todoAppServer/internal/domain/repository"
)

type avatarDocument struct {
	PublicID string `bson:"public_id"`
	URL      string `bson:"url"`
}

type taskDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// userDocument is the stored shape of a user; tasks are embedded.
type userDocument struct {
	ID                     string         `bson:"_id"`
	Name                   string         `bson:"name"`
	Email                  string         `bson:"email"`
	Password               string         `bson:"password,omitempty"`
	Avatar                 avatarDocument `bson:"avatar"`
	Verified               bool           `bson:"verified"`
	OTP                    *int           `bson:"otp"`
	OTPExpiry              *time.Time     `bson:"otp_expiry"`
	ResetPasswordOTP       *int           `bson:"resetPasswordOtp"`
	ResetPasswordOTPExpire *time.Time     `bson:"resetPasswordOtpExpire"`
	Tasks                  []taskDocument `bson:"tasks"`
	CreatedAt              time.Time      `bson:"createdAt"`
	UpdatedAt              time.Time      `bson:"updatedAt"`
}

// withoutPassword is the default read projection.
var withoutPassword = bson.D{{Key: "password", Value: 0}}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

// EnsureIndexes creates the unique email index and the reset OTP lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetPasswordOtp", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if _, err := r.col.InsertOne(ctx, toDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPassword))
}

// GetByEmail includes the password hash for credential comparison.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByResetOTP(ctx context.Context, otp int, now time.Time) (*entity.User, error) {
	filter := bson.M{
		"resetPasswordOtp":       otp,
		"resetPasswordOtpExpire": bson.M{"$gt": now},
	}
	return r.findOne(ctx, filter, options.FindOne().SetProjection(withoutPassword))
}

// Update writes every field of the document. An empty Password keeps the stored hash.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	doc := toDocument(u)
	set := bson.M{
		"name":                   doc.Name,
		"email":                  doc.Email,
		"avatar":                 doc.Avatar,
		"verified":               doc.Verified,
		"otp":                    doc.OTP,
		"otp_expiry":             doc.OTPExpiry,
		"resetPasswordOtp":       doc.ResetPasswordOTP,
		"resetPasswordOtpExpire": doc.ResetPasswordOTPExpire,
		"tasks":                  doc.Tasks,
		"updatedAt":              doc.UpdatedAt,
	}
	if doc.Password != "" {
		set["password"] = doc.Password
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*entity.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func toDocument(u *entity.User) userDocument {
	tasks := make([]taskDocument, 0, len(u.Tasks))
	for _, t := range u.Tasks {
		tasks = append(tasks, taskDocument{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
		})
	}
	return userDocument{
		ID:                     u.ID,
		Name:                   u.Name,
		Email:                  u.Email,
		Password:               u.Password,
		Avatar:                 avatarDocument{PublicID: u.Avatar.PublicID, URL: u.Avatar.URL},
		Verified:               u.Verified,
		OTP:                    u.OTP,
		OTPExpiry:              u.OTPExpiry,
		ResetPasswordOTP:       u.ResetPasswordOTP,
		ResetPasswordOTPExpire: u.ResetPasswordOTPExpire,
		Tasks:                  tasks,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (d userDocument) toEntity() *entity.User {
	tasks := make([]entity.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, entity.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
		})
	}
	return &entity.User{
		ID:                     d.ID,
		Name:                   d.Name,
		Email:                  d.Email,
		Password:               d.Password,
		Avatar:                 entity.Avatar{PublicID: d.Avatar.PublicID, URL: d.Avatar.URL},
		Verified:               d.Verified,
		OTP:                    d.OTP,
		OTPExpiry:              d.OTPExpiry,
		ResetPasswordOTP:       d.ResetPasswordOTP,
		ResetPasswordOTPExpire: d.ResetPasswordOTPExpire,
		Tasks:                  tasks,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
