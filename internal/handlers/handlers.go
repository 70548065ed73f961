package handlers

import (
	"errors"
	"strings"

	"event-ticketing-backend/internal/config"
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authSvc     *services.AuthService
	userSvc     *services.UserService
	categorySvc *services.CategoryService
	eventSvc    *services.EventService
	bookingSvc  *services.BookingService
	reviewSvc   *services.ReviewService
	cfg         *config.Config
	rdb         *redis.Client
}

func NewHandler(
	authSvc *services.AuthService,
	userSvc *services.UserService,
	categorySvc *services.CategoryService,
	eventSvc *services.EventService,
	bookingSvc *services.BookingService,
	reviewSvc *services.ReviewService,
	cfg *config.Config,
	rdb *redis.Client,
) *Handler {
	return &Handler{
		authSvc:     authSvc,
		userSvc:     userSvc,
		categorySvc: categorySvc,
		eventSvc:    eventSvc,
		bookingSvc:  bookingSvc,
		reviewSvc:   reviewSvc,
		cfg:         cfg,
		rdb:         rdb,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	jwt := middleware.JWTMiddleware(h.cfg)
	organizer := middleware.OrganizerOnly()
	limiter := middleware.RateLimit(h.cfg.RateLimit, h.rdb)

	router.Get("/health", h.Health)

	// Auth
	auth := router.Group("/auth")
	{
		auth.Post("/register", h.Register)
		auth.Post("/login", limiter, h.Login)
		auth.Post("/refresh", h.Refresh)
		auth.Post("/logout", jwt, h.Logout)
	}

	// Users
	users := router.Group("/users", jwt)
	{
		users.Get("/profile", h.GetProfile)
		users.Patch("/profile", h.UpdateProfile)
		users.Post("/organizer", h.UpgradeToOrganizer)
	}

	// Categories
	categories := router.Group("/categories")
	{
		categories.Get("/", h.ListCategories)
		categories.Get("/:id", h.GetCategory)
		categories.Post("/", jwt, organizer, h.CreateCategory)
		categories.Put("/:id", jwt, organizer, h.UpdateCategory)
		categories.Delete("/:id", jwt, organizer, h.DeleteCategory)
	}

	// Events: static paths before /:id
	events := router.Group("/events")
	{
		events.Get("/my-events", jwt, organizer, h.GetMyEvents)
		events.Get("/organizer-stats", jwt, organizer, h.GetOrganizerStats)
		events.Get("/", h.ListEvents)
		events.Get("/:id", h.GetEvent)
		events.Get("/:id/analytics", jwt, organizer, h.GetEventAnalytics)
		events.Post("/", jwt, organizer, h.CreateEvent)
		events.Put("/:id", jwt, organizer, h.UpdateEvent)
		events.Delete("/:id", jwt, organizer, h.DeleteEvent)
	}

	// Bookings
	bookings := router.Group("/bookings", jwt)
	{
		bookings.Post("/", limiter, h.CreateBooking)
		bookings.Get("/my-bookings", h.GetMyBookings)
		bookings.Get("/event/:eventId", organizer, h.GetEventBookings)
		bookings.Get("/:id", h.GetBooking)
		bookings.Get("/:id/qr", h.GetBookingQR)
		bookings.Patch("/:id", h.UpdateBooking)
		bookings.Delete("/:id", h.CancelBooking)
	}

	// Reviews
	reviews := router.Group("/reviews")
	{
		reviews.Get("/my-reviews", jwt, h.GetMyReviews)
		reviews.Get("/event/:eventId", h.GetEventReviews)
		reviews.Get("/event/:eventId/stats", h.GetEventReviewStats)
		reviews.Post("/", jwt, h.CreateReview)
		reviews.Get("/:id", h.GetReview)
		reviews.Put("/:id", jwt, h.UpdateReview)
		reviews.Delete("/:id", jwt, h.DeleteReview)
	}

	router.Post("/uploads", jwt, organizer, h.UploadImages)
}

// Health is a liveness probe
func (h *Handler) Health(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"status": "ok"}, "")
}

// ErrorHandler handles global errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to internal server error
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var serr *services.ServiceError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &serr):
		code, message = serviceErrorStatus(serr)
	case errors.As(err, &ferr):
		code = ferr.Code
		message = ferr.Message
	}

	if code >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("internal error")
	}

	return utils.Error(c, message, code)
}

func serviceErrorStatus(err *services.ServiceError) (int, string) {
	switch err.Code {
	case services.ErrNotFound:
		return fiber.StatusNotFound, err.Message
	case services.ErrForbidden:
		return fiber.StatusForbidden, err.Message
	case services.ErrConflict:
		return fiber.StatusConflict, err.Message
	case services.ErrBadRequest:
		return fiber.StatusBadRequest, err.Message
	case services.ErrUnauthorized:
		return fiber.StatusUnauthorized, err.Message
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

func actorFromContext(c *fiber.Ctx) (services.Actor, error) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: userID, Role: middleware.GetUserRoleFromContext(c)}, nil
}

func parseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+label+" ID")
	}
	return id, nil
}

func paginationFromQuery(c *fiber.Ctx) services.Pagination {
	return services.Pagination{
		Page:  c.QueryInt("page", services.DefaultPage),
		Limit: c.QueryInt("limit", services.DefaultLimit),
	}
}

func pageMeta[T any](p *services.Page[T]) *utils.Meta {
	return utils.NewMeta(p.Page, p.Limit, p.Total, p.Pages)
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
