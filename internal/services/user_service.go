package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dias221467/presence-tracker/internal/models"
	"github.com/Dias221467/presence-tracker/internal/repository"
	"github.com/sirupsen/logrus"
)

// Field length limits, min inclusive and max exclusive.
const (
	userNameMin = 4
	userNameMax = 19
	passwordMin = 5
	passwordMax = 19
	emailMin    = 3
	emailMax    = 49
)

const tokenAttempts = 3

// UserService encapsulates registration, login and token authentication.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser validates the input, stores a new user and returns the freshly issued token.
// The token is never retrievable again except through LoginUser.
func (s *UserService) RegisterUser(ctx context.Context, userName, password, email string) (*models.Credentials, error) {
	logrus.Info("Registering new user")

	if err := validateRegistration(userName, password, email); err != nil {
		logrus.WithError(err).Warn("Invalid registration input")
		return nil, err
	}

	hashedPwd, err := HashPassword(password)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var created *models.User
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		created, err = s.repo.CreateUser(ctx, &models.User{
			UserName:       userName,
			Email:          email,
			HashedPassword: hashedPwd,
			Token:          NewToken(),
		})
		if !errors.Is(err, repository.ErrDuplicateToken) {
			break
		}
	}

	switch {
	case errors.Is(err, repository.ErrDuplicateUserName):
		logrus.WithField("user_name", userName).Warn("user_name already in use")
		return nil, conflictError("user_name already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, conflictError("email already exists")
	case err != nil:
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return &models.Credentials{UserName: created.UserName, Token: created.Token}, nil
}

func validateRegistration(userName, password, email string) error {
	if err := checkLength("user_name", userName, userNameMin, userNameMax); err != nil {
		return err
	}
	if err := checkLength("password", password, passwordMin, passwordMax); err != nil {
		return err
	}
	if err := checkLength("email", email, emailMin, emailMax); err != nil {
		return err
	}
	if !strings.Contains(email, "@") {
		return validationError("email must contain @")
	}
	return nil
}

func checkLength(field, value string, min, max int) error {
	if value == "" {
		return validationError(field + " is required")
	}
	n := utf8.RuneCountInString(value)
	if n < min || n >= max {
		return validationError(fmt.Sprintf("%s must be between %d and %d characters", field, min, max-1))
	}
	return nil
}

// LoginUser checks credentials and returns the user's existing token. It never rotates
// the token and never reveals which of the two fields was wrong.
func (s *UserService) LoginUser(ctx context.Context, userName, password string) (*models.Credentials, error) {
	if userName == "" || password == "" {
		return nil, validationError("user_name and password are required")
	}

	user, err := s.repo.GetUserByUserName(ctx, userName)
	if errors.Is(err, repository.ErrNotFound) {
		// Timing must match the wrong-password path.
		CheckPassword(dummyHash, password)
		logrus.Warn("Login failed")
		return nil, authError("password or user_name wrong")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.HashedPassword, password) {
		logrus.WithField("userID", user.ID.Hex()).Warn("Login failed")
		return nil, authError("password or user_name wrong")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User logged in")
	return &models.Credentials{UserName: user.UserName, Token: user.Token}, nil
}

// dummyHash is a valid bcrypt hash that matches no real password.
var dummyHash, _ = HashPassword("not-a-password")

// Authenticate resolves the user owning token.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, validationError("token is required")
	}

	user, err := s.repo.GetUserByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, authError("invalid token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return user, nil
}
