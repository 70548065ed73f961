package services

import (
	"errors"
	"strings"
	"time"

	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/repositories"
	"event-ticketing-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAuthService(repo *repositories.Repository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

type OrganizerProfileInput struct {
	OrganizationName string `json:"organization_name" validate:"required,max=150"`
	Address          string `json:"address" validate:"required,max=255"`
	City             string `json:"city" validate:"required,max=100"`
	State            string `json:"state" validate:"required,max=100"`
	Country          string `json:"country" validate:"required,max=100"`
	ZipCode          string `json:"zip_code" validate:"required,max=20"`
}

func (in OrganizerProfileInput) toModel(userID uuid.UUID) *models.OrganizerProfile {
	return &models.OrganizerProfile{
		UserID:           userID,
		OrganizationName: strings.TrimSpace(in.OrganizationName),
		Address:          strings.TrimSpace(in.Address),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		Country:          strings.TrimSpace(in.Country),
		ZipCode:          strings.TrimSpace(in.ZipCode),
	}
}

type RegisterRequest struct {
	Name             string                 `json:"name" validate:"required,min=2,max=100"`
	Email            string                 `json:"email" validate:"required,email"`
	Password         string                 `json:"password" validate:"required,min=6,max=72"`
	Role             models.Role            `json:"role" validate:"omitempty,oneof=ATTENDEE ORGANIZER"`
	OrganizerProfile *OrganizerProfileInput `json:"organizer_profile"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user"`
}

// Register creates the user and, for organizers, the organizer profile in
// one transaction.
func (s *AuthService) Register(req RegisterRequest) (*UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := req.Role
	if role == "" {
		role = models.RoleAttendee
	}
	if !role.Valid() {
		return nil, badRequest("role must be ATTENDEE or ORGANIZER")
	}
	if role == models.RoleOrganizer && req.OrganizerProfile == nil {
		return nil, badRequest("organizer profile is required for organizers")
	}

	if existing, _ := s.repo.UserRepo.GetUserByEmail(email); existing != nil {
		return nil, conflict("email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, NewServiceError(err.Error(), ErrBadRequest, nil)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}

	err = s.repo.Transaction(func(tx *repositories.Repository) error {
		if err := tx.UserRepo.CreateUser(user); err != nil {
			return err
		}
		if role == models.RoleOrganizer {
			profile := req.OrganizerProfile.toModel(user.ID)
			if err := tx.UserRepo.CreateOrganizerProfile(profile); err != nil {
				return err
			}
			user.OrganizerProfile = profile
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "", "email already registered")
	}

	return newUserResponse(user), nil
}

func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, badRequest("email and password are required")
	}

	user, err := s.repo.UserRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError("invalid credentials", ErrUnauthorized, nil)
		}
		return nil, storeError(err, "", "")
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return nil, NewServiceError("invalid credentials", ErrUnauthorized, nil)
	}

	return s.issueTokens(user)
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token stops working once the new hash is stored.
func (s *AuthService) Refresh(req RefreshRequest) (*LoginResponse, error) {
	subject, err := utils.ParseToken(req.RefreshToken, s.cfg.JWTRefresh)
	if err != nil {
		return nil, NewServiceError("invalid refresh token", ErrUnauthorized, err)
	}

	user, err := s.repo.UserRepo.GetUserByID(subject.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError("invalid refresh token", ErrUnauthorized, nil)
		}
		return nil, storeError(err, "", "")
	}

	if user.RefreshTokenHash == nil || utils.CheckToken(req.RefreshToken, *user.RefreshTokenHash) != nil {
		return nil, NewServiceError("invalid refresh token", ErrUnauthorized, nil)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Logout(userID uuid.UUID) error {
	if err := s.repo.UserRepo.UpdateRefreshTokenHash(userID, nil); err != nil {
		return storeError(err, "user not found", "")
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*LoginResponse, error) {
	subject := utils.TokenSubject{UserID: user.ID, Email: user.Email, Role: string(user.Role)}

	accessToken, err := utils.GenerateToken(subject, s.cfg.JWTSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, NewServiceError("failed to generate token", ErrDatabaseError, err)
	}
	refreshToken, err := utils.GenerateToken(subject, s.cfg.JWTRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, NewServiceError("failed to generate token", ErrDatabaseError, err)
	}

	hash, err := utils.HashToken(refreshToken)
	if err != nil {
		return nil, NewServiceError("failed to generate token", ErrDatabaseError, err)
	}
	if err := s.repo.UserRepo.UpdateRefreshTokenHash(user.ID, &hash); err != nil {
		return nil, storeError(err, "", "")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
		User:         newUserResponse(user),
	}, nil
}
