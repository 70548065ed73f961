package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService struct {
	repo *repositories.Repository
	now  func() time.Time
}

func NewReviewService(repo *repositories.Repository) *ReviewService {
	return &ReviewService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type CreateReviewRequest struct {
	EventID uuid.UUID `json:"event_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Comment string    `json:"comment" validate:"required,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=2000"`
}

type ReviewQuery struct {
	Pagination
	Rating *int
}

type ReviewEventSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type ReviewResponse struct {
	ID        uuid.UUID           `json:"id"`
	Rating    int                 `json:"rating"`
	Comment   string              `json:"comment"`
	User      *UserSummary        `json:"user,omitempty"`
	Event     *ReviewEventSummary `json:"event,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ReviewStats always carries all five histogram buckets.
type ReviewStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Ratings       map[int]int `json:"ratings"`
}

type EventReviewsPage struct {
	*Page[ReviewResponse]
	Stats *ReviewStats `json:"stats"`
}

func newReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User.ID != uuid.Nil {
		user := newUserSummary(&r.User)
		resp.User = &user
	}
	if r.Event.ID != uuid.Nil {
		resp.Event = &ReviewEventSummary{
			ID:        r.Event.ID,
			Name:      r.Event.Name,
			StartDate: r.Event.StartDate,
			EndDate:   r.Event.EndDate,
		}
	}
	return resp
}

func computeReviewStats(ratings []int) *ReviewStats {
	stats := &ReviewStats{Ratings: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(ratings) == 0 {
		return stats
	}

	sum := 0
	for _, r := range ratings {
		stats.Ratings[r]++
		sum += r
	}
	stats.TotalReviews = len(ratings)
	stats.AverageRating = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	return stats
}

// Create accepts a review only after the event has ended and only from a
// user holding a CONFIRMED booking for it.
func (s *ReviewService) Create(req CreateReviewRequest, actor Actor) (*ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, badRequest("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, badRequest("comment is required")
	}

	var review *models.Review
	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		if _, err := tx.UserRepo.GetUserByID(actor.UserID); err != nil {
			return storeError(err, "user not found", "")
		}

		event, err := tx.EventRepo.GetEventByID(req.EventID)
		if err != nil {
			return storeError(err, "event not found", "")
		}
		if !s.now().After(event.EndDate) {
			return badRequest("you can only review events that have ended")
		}

		if _, err := tx.BookingRepo.GetConfirmedBooking(actor.UserID, event.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return badRequest("you can only review events you attended")
			}
			return err
		}

		existing, err := tx.ReviewRepo.GetReviewByUserAndEvent(actor.UserID, event.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return conflict("you have already reviewed this event")
		}

		review = &models.Review{
			UserID:  actor.UserID,
			EventID: event.ID,
			Rating:  req.Rating,
			Comment: comment,
		}
		return tx.ReviewRepo.CreateReview(review)
	})
	if err != nil {
		return nil, storeError(err, "", "you have already reviewed this event")
	}

	return s.FindOne(review.ID)
}

func (s *ReviewService) FindEventReviews(eventID uuid.UUID, q ReviewQuery) (*EventReviewsPage, error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	if q.Rating != nil && (*q.Rating < 1 || *q.Rating > 5) {
		return nil, badRequest("rating filter must be between 1 and 5")
	}

	if _, err := s.repo.EventRepo.GetEventByID(eventID); err != nil {
		return nil, storeError(err, "event not found", "")
	}

	reviews, total, err := s.repo.ReviewRepo.ListReviewsByEvent(eventID, q.offset(), q.Limit, q.Rating)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	stats, err := s.GetEventStats(eventID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, newReviewResponse(&reviews[i]))
	}
	return &EventReviewsPage{Page: newPage(items, total, q.Pagination), Stats: stats}, nil
}

func (s *ReviewService) FindMyReviews(actor Actor) ([]ReviewResponse, error) {
	reviews, err := s.repo.ReviewRepo.ListReviewsByUser(actor.UserID)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, newReviewResponse(&reviews[i]))
	}
	return items, nil
}

func (s *ReviewService) FindOne(id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.repo.ReviewRepo.GetReviewDetails(id)
	if err != nil {
		return nil, storeError(err, "review not found", "")
	}
	resp := newReviewResponse(review)
	return &resp, nil
}

func (s *ReviewService) Update(id uuid.UUID, req UpdateReviewRequest, actor Actor) (*ReviewResponse, error) {
	if req.Rating == nil && req.Comment == nil {
		return nil, badRequest("rating or comment is required")
	}

	review, err := s.repo.ReviewRepo.GetReviewByID(id)
	if err != nil {
		return nil, storeError(err, "review not found", "")
	}
	if err := requireOwner(actor, review.UserID, "you can only update your own reviews"); err != nil {
		return nil, err
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, badRequest("rating must be between 1 and 5")
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		comment := strings.TrimSpace(*req.Comment)
		if comment == "" {
			return nil, badRequest("comment cannot be empty")
		}
		review.Comment = comment
	}

	if err := s.repo.ReviewRepo.UpdateReview(review); err != nil {
		return nil, storeError(err, "", "")
	}
	return s.FindOne(review.ID)
}

func (s *ReviewService) Remove(id uuid.UUID, actor Actor) error {
	review, err := s.repo.ReviewRepo.GetReviewByID(id)
	if err != nil {
		return storeError(err, "review not found", "")
	}
	if err := requireOwner(actor, review.UserID, "you can only delete your own reviews"); err != nil {
		return err
	}

	if err := s.repo.ReviewRepo.DeleteReview(review.ID); err != nil {
		return storeError(err, "review not found", "")
	}
	return nil
}

func (s *ReviewService) GetEventStats(eventID uuid.UUID) (*ReviewStats, error) {
	ratings, err := s.repo.ReviewRepo.ListRatingsByEvent(eventID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return computeReviewStats(ratings), nil
}
