package services

import (
	"context"
	"errors"

	"shuttlebook/internal/models"
	"shuttlebook/internal/repositories/interfaces"
	"shuttlebook/internal/utils"
	"shuttlebook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}

// UserService is the minimal identity surface: registration and token
// issuance against the shared JWT secret. Passwordless by design of the
// surrounding platform; OTP delivery happens before this service is hit.
type UserService interface {
	Register(ctx context.Context, user *models.User) (*models.User, string, error)
	IssueToken(ctx context.Context, phone string) (*models.User, string, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type userService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	log       *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, jwtSecret string, log *logger.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (s *userService) Register(ctx context.Context, user *models.User) (*models.User, string, error) {
	if user.Name == "" || user.Phone == "" {
		return nil, "", NewInvalidInput("MISSING_USER_FIELDS", "name and phone are required")
	}
	if user.Role == "" {
		user.Role = models.UserRolePassenger
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, "", &Error{Kind: KindConflict, Code: "USER_EXISTS", Message: "phone number already registered"}
		}
		return nil, "", NewInternal(err)
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, "", NewInternal(err)
	}

	s.log.WithField("user_id", user.ID.Hex()).Info("user registered")
	return user, token, nil
}

func (s *userService) IssueToken(ctx context.Context, phone string) (*models.User, string, error) {
	if phone == "" {
		return nil, "", NewInvalidInput("MISSING_PHONE", "phone is required")
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", NewInternal(err)
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, "", NewInternal(err)
	}

	return user, token, nil
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewInternal(err)
	}
	return user, nil
}
