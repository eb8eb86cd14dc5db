package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/canteen-api/models"
)

type UserService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewUserService(db *gorm.DB, log logrus.FieldLogger) *UserService {
	return &UserService{db: db, log: log}
}

// Identity is what the access token says about the caller.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type ProfileInput struct {
	Name  *string
	Phone *string
}

// GetProfile returns the stored profile, or an unsaved one built from the
// token when the user has never saved a profile.
func (s *UserService) GetProfile(ctx context.Context, id Identity) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.User{ID: id.UserID, Email: id.Email, Role: roleOrDefault(id.Role)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

// SaveProfile upserts the caller's contact details. Email and role always
// come from the token, never from the request body.
func (s *UserService) SaveProfile(ctx context.Context, id Identity, in ProfileInput) (*models.User, error) {
	if id.UserID == "" {
		return nil, validation("user_id", "user id is required")
	}

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Email = id.Email
	user.Role = roleOrDefault(id.Role)
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	user.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "phone", "role", "updated_at"}),
	}).Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return user, nil
}

// ListUsers returns known users, newest first. An empty role means all.
func (s *UserService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}

	users := []models.User{}
	if err := q.Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func roleOrDefault(role string) string {
	if role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}
