package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/josepguedes/Projeto-2/internal/middleware"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

// Link is a hypermedia hint attached to list responses.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

type PagedResponse struct {
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Total       int64       `json:"total"`
	Data        interface{} `json:"data"`
	Links       []Link      `json:"links"`
}

func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"message": errors.PublicMessage(err)})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// actor returns the authenticated caller; routes using it sit behind Auth.
func actor(c *gin.Context) services.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Validation(name + " must be a positive integer")
	}
	return uint(id), nil
}

// optionalUintQuery parses an optional positive integer query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, errors.Validation(name + " must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

// parsePage reads page and limit. Out-of-range values are rejected, not
// clamped.
func parsePage(c *gin.Context, defaultLimit int) (repositories.Page, error) {
	p := repositories.Page{Number: 1, Size: defaultLimit}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, errors.Validation("page must be an integer >= 1")
		}
		p.Number = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > repositories.MaxPageSize {
			return p, errors.Validation(fmt.Sprintf("limit must be an integer between 1 and %d", repositories.MaxPageSize))
		}
		p.Size = n
	}
	return p, nil
}

// respondPage writes a paginated list with previous/next links for the
// current route.
func respondPage[T any](c *gin.Context, items []T, total int64, p repositories.Page, links ...Link) {
	if items == nil {
		items = []T{}
	}
	if p.Number > 1 {
		links = append(links, Link{Rel: "pagina-anterior", Href: pageHref(c, p.Number-1, p.Limit()), Method: http.MethodGet})
	}
	if total > int64(p.Number*p.Limit()) {
		links = append(links, Link{Rel: "proxima-pagina", Href: pageHref(c, p.Number+1, p.Limit()), Method: http.MethodGet})
	}
	if links == nil {
		links = []Link{}
	}
	c.JSON(http.StatusOK, PagedResponse{
		TotalPages:  p.TotalPages(total),
		CurrentPage: p.Number,
		Total:       total,
		Data:        items,
		Links:       links,
	})
}

func pageHref(c *gin.Context, page, limit int) string {
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.Request.URL.Path + "?" + q.Encode()
}

// bindJSON decodes the body and turns binding failures into validation
// errors with a readable message.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Validation(describeBindError(err))
	}
	return nil
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "isodate":
			msgs = append(msgs, fe.Field()+" must be a date in YYYY-MM-DD format")
		case "min", "gte":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param())
		case "max", "lte":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param())
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
