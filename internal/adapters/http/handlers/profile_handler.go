package handlers

import (
	"errors"

	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Me returns the caller's profile
// @Summary Get my profile
// @Tags Profiles
// @Produce json
// @Security TokenAuth
// @Success 200 {object} services.ProfileView
// @Failure 401 {object} map[string]string
// @Router /me/ [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.Get(c.Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, profile)
}

// Get returns a profile
// @Summary Get profile
// @Tags Profiles
// @Produce json
// @Security TokenAuth
// @Param id path int true "User ID"
// @Success 200 {object} services.ProfileView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/{id}/ [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, profile)
}

// Update edits the caller's own profile
// @Summary Update profile
// @Description Only first_name, last_name, location, tel, description and working_hours can change
// @Tags Profiles
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} services.ProfileView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /profile/{id}/ [patch]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input services.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.Update(c.Context(), actor, id, &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, profile)
}

// UploadFile replaces the caller's profile picture
// @Summary Upload profile picture
// @Tags Profiles
// @Accept multipart/form-data
// @Produce json
// @Security TokenAuth
// @Param id path int true "User ID"
// @Param file formData file true "Image (jpg, jpeg, png, gif, webp)"
// @Success 200 {object} services.ProfileView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Router /profile/{id}/file/ [put]
func (h *ProfileHandler) UploadFile(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil && !errors.Is(err, fasthttp.ErrMissingFile) && !errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return respondError(c, domain.NewValidationError("file", "Upload a valid file."))
	}

	profile, err := h.profileService.UploadAvatar(c.Context(), actor, id, file)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, profile)
}

// ListBusiness lists business profiles
// @Summary List business profiles
// @Tags Profiles
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.ProfileListItem
// @Router /profiles/business/ [get]
func (h *ProfileHandler) ListBusiness(c *fiber.Ctx) error {
	return h.list(c, domain.RoleBusiness)
}

// ListCustomer lists customer profiles
// @Summary List customer profiles
// @Tags Profiles
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.ProfileListItem
// @Router /profiles/customer/ [get]
func (h *ProfileHandler) ListCustomer(c *fiber.Ctx) error {
	return h.list(c, domain.RoleCustomer)
}

func (h *ProfileHandler) list(c *fiber.Ctx, role domain.Role) error {
	profiles, err := h.profileService.ListByRole(c.Context(), role)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, profiles)
}
