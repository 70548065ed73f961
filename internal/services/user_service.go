package services

import (
	"strings"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/repositories"

	"github.com/google/uuid"
)

type UserService struct {
	repo *repositories.Repository
}

func NewUserService(repo *repositories.Repository) *UserService {
	return &UserService{repo: repo}
}

type UserResponse struct {
	ID               uuid.UUID                `json:"id"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Role             models.Role              `json:"role"`
	OrganizerProfile *models.OrganizerProfile `json:"organizer_profile,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

func newUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		OrganizerProfile: user.OrganizerProfile,
		CreatedAt:        user.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (s *UserService) GetProfile(userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.UserRepo.GetUserWithProfile(userID)
	if err != nil {
		return nil, storeError(err, "user not found", "")
	}
	return newUserResponse(user), nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("name is required")
	}

	user, err := s.repo.UserRepo.GetUserWithProfile(userID)
	if err != nil {
		return nil, storeError(err, "user not found", "")
	}

	user.Name = name
	if err := s.repo.UserRepo.UpdateUser(user); err != nil {
		return nil, storeError(err, "", "")
	}
	return newUserResponse(user), nil
}

// UpgradeToOrganizer turns an attendee into an organizer. The change is
// one-way and creates the organizer profile in the same transaction.
func (s *UserService) UpgradeToOrganizer(userID uuid.UUID, req OrganizerProfileInput) (*UserResponse, error) {
	var user *models.User
	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		var err error
		user, err = tx.UserRepo.GetUserWithProfile(userID)
		if err != nil {
			return storeError(err, "user not found", "")
		}
		if user.Role == models.RoleOrganizer {
			return badRequest("user is already an organizer")
		}

		profile := req.toModel(user.ID)
		if err := tx.UserRepo.CreateOrganizerProfile(profile); err != nil {
			return storeError(err, "", "organizer profile already exists")
		}

		user.Role = models.RoleOrganizer
		user.OrganizerProfile = profile
		return tx.UserRepo.UpdateUser(user)
	})
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return newUserResponse(user), nil
}
