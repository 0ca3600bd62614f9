package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"coderr-backend/internal/adapters/persistence/repositories"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/pagination"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// OfferHandler handles offer and offer detail endpoints
type OfferHandler struct {
	offerService *services.OfferService
}

// NewOfferHandler creates a new offer handler
func NewOfferHandler(offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// List returns a page of offers
// @Summary List offers
// @Description Public, paginated (at most 5 per page)
// @Tags Offers
// @Produce json
// @Param user_id query int false "Filter by creator"
// @Param creator_id query int false "Alias of user_id"
// @Param min_price query int false "Minimum of the cheapest tier price"
// @Param min_delivery_time query int false "Minimum of the fastest tier delivery time"
// @Param max_delivery_time query int false "Maximum of the fastest tier delivery time"
// @Param search query string false "Search in title and description"
// @Param ordering query string false "updated_at, -updated_at, min_price, -min_price"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (capped at 5)"
// @Success 200 {object} pagination.Response
// @Failure 400 {object} map[string][]string
// @Failure 404 {object} map[string]string
// @Router /offers/ [get]
func (h *OfferHandler) List(c *fiber.Ctx) error {
	errs := &domain.ValidationError{}
	filter := repositories.OfferFilter{
		UserID:          queryUint(c, "user_id", errs),
		MinPrice:        queryInt(c, "min_price", errs),
		MinDeliveryTime: queryInt(c, "min_delivery_time", errs),
		MaxDeliveryTime: queryInt(c, "max_delivery_time", errs),
		Search:          c.Query("search"),
		Ordering:        c.Query("ordering"),
	}
	if filter.UserID == nil {
		filter.UserID = queryUint(c, "creator_id", errs)
	}
	if err := errs.OrNil(); err != nil {
		return respondError(c, err)
	}

	params, err := pagination.GetParams(c, pagination.DefaultLimit, pagination.MaxLimit)
	if err != nil {
		return response.NotFound(c, "Invalid page.")
	}

	offers, total, err := h.offerService.List(c.Context(), &services.ListOffersInput{
		Filter: filter,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := params.Check(total); err != nil {
		return response.NotFound(c, "Invalid page.")
	}

	return response.Success(c, pagination.NewResponse(c, offers, params, total))
}

// Create publishes an offer
// @Summary Create offer
// @Description Business accounts only. JSON body, or multipart with a JSON "details" field and an "image" file.
// @Tags Offers
// @Accept json,mpfd
// @Produce json
// @Security TokenAuth
// @Param body body services.CreateOfferInput true "Offer with at least 3 details"
// @Success 201 {object} services.OfferView
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /offers/ [post]
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var (
		input services.CreateOfferInput
		image *multipart.FileHeader
	)
	if isMultipart(c) {
		input.Title = c.FormValue("title")
		input.Description = c.FormValue("description")
		input.Image = c.FormValue("image")
		if raw := c.FormValue("details"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input.Details); err != nil {
				return respondError(c, domain.NewValidationError("details", "Value must be valid JSON."))
			}
		}
		if image, err = formImage(c); err != nil {
			return respondError(c, err)
		}
	} else if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	offer, err := h.offerService.Create(c.Context(), actor, &input, image)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, offer)
}

// Get returns a single offer
// @Summary Get offer
// @Tags Offers
// @Produce json
// @Param id path int true "Offer ID"
// @Success 200 {object} services.OfferListItem
// @Failure 404 {object} map[string]string
// @Router /offers/{id}/ [get]
func (h *OfferHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	offer, err := h.offerService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, offer)
}

// Update edits an offer and its tiers
// @Summary Update offer
// @Description Owner only. Each entry in details must carry offer_type and updates the tier of that type in place.
// @Tags Offers
// @Accept json,mpfd
// @Produce json
// @Security TokenAuth
// @Param id path int true "Offer ID"
// @Param body body services.UpdateOfferInput true "Partial offer"
// @Success 200 {object} services.OfferView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offers/{id}/ [patch]
func (h *OfferHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var (
		input services.UpdateOfferInput
		image *multipart.FileHeader
	)
	if isMultipart(c) {
		input.Title = formString(c, "title")
		input.Description = formString(c, "description")
		if raw := c.FormValue("details"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input.Details); err != nil {
				return respondError(c, domain.NewValidationError("details", "Value must be valid JSON."))
			}
		}
		if image, err = formImage(c); err != nil {
			return respondError(c, err)
		}
		if image == nil {
			input.Image = formString(c, "image")
		}
	} else if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	offer, err := h.offerService.Update(c.Context(), actor, id, &input, image)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, offer)
}

// Delete removes an offer
// @Summary Delete offer
// @Description Owner only; offers with orders cannot be deleted
// @Tags Offers
// @Security TokenAuth
// @Param id path int true "Offer ID"
// @Success 204
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offers/{id}/ [delete]
func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.offerService.Delete(c.Context(), actor, id); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}

// GetDetail returns a single offer tier
// @Summary Get offer detail
// @Tags Offers
// @Produce json
// @Param id path int true "Offer detail ID"
// @Success 200 {object} services.OfferDetailView
// @Failure 404 {object} map[string]string
// @Router /offerdetails/{id}/ [get]
func (h *OfferHandler) GetDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.offerService.GetDetail(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, detail)
}

// formImage returns the uploaded "image" file, nil when none was sent
func formImage(c *fiber.Ctx) (*multipart.FileHeader, error) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) {
			return nil, nil
		}
		return nil, domain.NewValidationError("image", "Upload a valid file.")
	}
	return file, nil
}

// formString returns a multipart field, nil when it was not sent
func formString(c *fiber.Ctx, key string) *string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
