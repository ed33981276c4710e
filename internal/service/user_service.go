package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
)

type UserService struct {
	users      repository.UserRepository
	idioms     repository.IdiomRepository
	favourites repository.FavouriteRepository
}

func NewUserService(
	users repository.UserRepository,
	idioms repository.IdiomRepository,
	favourites repository.FavouriteRepository,
) *UserService {
	return &UserService{users: users, idioms: idioms, favourites: favourites}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if len(req.Password) < 6 {
		return nil, models.NewValidationError("Password must be at least 6 characters")
	}

	taken, err := s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if taken {
		return nil, models.NewConflictError("Username already exists")
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username or email already exists")
		}
		return nil, models.NewInternalError(err)
	}
	observability.Logger.InfoContext(ctx, "user registered", "new_user_id", user.ID)
	return user, nil
}

// Authenticate checks an email/password pair. Both failure modes return the same message.
func (s *UserService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid email or password")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID int) (*models.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "User", userID)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		if username != user.Username {
			taken, err := s.users.UsernameTaken(ctx, username, userID)
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			if taken {
				return nil, models.NewConflictError("Username already exists")
			}
			fields["username"] = username
		}
	}
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if utf8.RuneCountInString(fullName) > 50 {
			return nil, models.NewValidationError("Full name must be at most 50 characters")
		}
		fields["full_name"] = fullName
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if utf8.RuneCountInString(bio) > 500 {
			return nil, models.NewValidationError("Bio must be at most 500 characters")
		}
		fields["bio"] = bio
	}
	if req.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*req.Avatar)
	}

	if err := s.users.Update(ctx, user, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return s.Profile(ctx, userID)
}

func (s *UserService) Stats(ctx context.Context, userID int) (*models.UserStats, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.idioms.AuthorStats(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	favourites, err := s.favourites.CountByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.FavouriteCount = favourites
	stats.Level = user.Level
	return stats, nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 50 {
		return models.NewValidationError("Username must be between 3 and 50 characters")
	}
	return nil
}
