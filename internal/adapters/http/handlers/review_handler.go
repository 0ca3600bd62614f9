package handlers

import (
	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List returns reviews
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Security TokenAuth
// @Param business_user_id query int false "Reviewed business user"
// @Param reviewer_id query int false "Reviewer"
// @Param ordering query string false "created_at, rating or updated_at, optionally prefixed with -"
// @Success 200 {array} services.ReviewView
// @Failure 400 {object} map[string][]string
// @Router /reviews/ [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	errs := &domain.ValidationError{}
	filter := repositories.ReviewFilter{
		BusinessUserID: queryUint(c, "business_user_id", errs),
		ReviewerID:     queryUint(c, "reviewer_id", errs),
		Ordering:       c.Query("ordering"),
	}
	if err := errs.OrNil(); err != nil {
		return respondError(c, err)
	}

	reviews, err := h.reviewService.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, reviews)
}

// Create stores a review
// @Summary Create review
// @Description Customers only; one review per business user
// @Tags Reviews
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param body body services.CreateReviewInput true "Review"
// @Success 201 {object} services.ReviewView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Router /reviews/ [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var input services.CreateReviewInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.Create(c.Context(), actor, &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, review)
}

// Get returns a review
// @Summary Get review
// @Tags Reviews
// @Produce json
// @Security TokenAuth
// @Param id path int true "Review ID"
// @Success 200 {object} services.ReviewView
// @Failure 404 {object} map[string]string
// @Router /reviews/{id}/ [get]
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, review)
}

// Update edits a review
// @Summary Update review
// @Description Reviewer only; rating and description can change
// @Tags Reviews
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Review ID"
// @Param body body services.UpdateReviewInput true "Partial review"
// @Success 200 {object} services.ReviewView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id}/ [patch]
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input services.UpdateReviewInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.Update(c.Context(), actor, id, &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, review)
}

// Delete removes a review
// @Summary Delete review
// @Description Reviewer only
// @Tags Reviews
// @Security TokenAuth
// @Param id path int true "Review ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id}/ [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.reviewService.Delete(c.Context(), actor, id); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}
