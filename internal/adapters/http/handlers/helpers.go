package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the HTTP error shapes
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		authzErr      *domain.AuthorizationError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return response.ValidationFailed(c, validationErr.Fields)
	case errors.As(err, &authzErr):
		return response.Forbidden(c, authzErr.Reason)
	case errors.As(err, &notFoundErr):
		return response.NotFound(c, notFoundErr.Error()+".")
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, "Authentication credentials were not provided.")
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c)
}

// currentActor returns the caller stored by the auth middleware
func currentActor(c *fiber.Ctx) (*domain.Actor, error) {
	actor, ok := c.Locals("actor").(*domain.Actor)
	if !ok || actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return actor, nil
}

// paramID reads a positive integer path parameter. Anything else cannot
// name a row, so it is reported as 404.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NotFound("Resource")
	}
	return uint(id), nil
}

// queryInt reads an optional integer query parameter, recording a field
// error when it is present but malformed
func queryInt(c *fiber.Ctx, key string, errs *domain.ValidationError) *int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, "A valid integer is required.")
		return nil
	}
	return &v
}

// queryUint is queryInt for id filters
func queryUint(c *fiber.Ctx, key string, errs *domain.ValidationError) *uint {
	v := queryInt(c, key, errs)
	if v == nil {
		return nil
	}
	if *v < 0 {
		errs.Add(key, "A valid integer is required.")
		return nil
	}
	u := uint(*v)
	return &u
}

// parseBody decodes the request body into out
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("non_field_errors", "Invalid request body.")
	}
	return nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}
