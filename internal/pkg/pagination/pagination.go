package pagination

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// ErrInvalidPage is returned for a malformed or out-of-range page number
var ErrInvalidPage = errors.New("invalid page")

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"page_size"`
	Offset int `json:"-"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 5

// MaxLimit is the maximum number of items per page
const MaxLimit = 5

// GetParams extracts pagination parameters from request. page_size above
// maxLimit is clamped, never rejected.
func GetParams(c *fiber.Ctx, defaultLimit, maxLimit int) (*Params, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return nil, ErrInvalidPage
		}
		page = p
	}

	limit := defaultLimit
	if raw := c.Query("page_size"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, nil
}

// TotalPages returns the number of pages for total items
func (p *Params) TotalPages(total int64) int {
	pages := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		pages++
	}
	return pages
}

// Check rejects a page past the last one. Page 1 of an empty set is valid.
func (p *Params) Check(total int64) error {
	if p.Page > 1 && p.Page > p.TotalPages(total) {
		return ErrInvalidPage
	}
	return nil
}

// Response represents paginated response
type Response struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewResponse creates a new paginated response with absolute next/previous links
func NewResponse(c *fiber.Ctx, data interface{}, params *Params, total int64) *Response {
	resp := &Response{Count: total, Results: data}

	if params.Page < params.TotalPages(total) {
		next := pageURL(c, params.Page+1)
		resp.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(c, params.Page-1)
		resp.Previous = &prev
	}

	return resp
}

func pageURL(c *fiber.Ctx, page int) string {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	c.Request().URI().QueryArgs().CopyTo(args)
	if page == 1 {
		args.Del("page")
	} else {
		args.Set("page", strconv.Itoa(page))
	}

	url := c.BaseURL() + c.Path()
	if query := args.String(); query != "" {
		url += "?" + query
	}
	return url
}
