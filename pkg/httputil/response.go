package httputil

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinichq/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Code    errors.Code       `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

// Page is the paginated list envelope.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// RespondWithError renders an AppError with its mapped status; anything else
// is logged and surfaced as a generic 500 without detail.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		if appErr.Code == errors.CodeInternal {
			log.Error().Err(appErr.Err).Str("path", c.Request.URL.Path).Msg("internal error")
		}
		c.JSON(appErr.StatusCode(), Response{
			Status:  "error",
			Message: appErr.Message,
			Code:    appErr.Code,
			Fields:  appErr.Fields,
		})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "internal server error",
		Code:    errors.CodeInternal,
	})
}

// RespondWithPage sends a paginated list using the count/next/previous/results
// envelope. Links are derived from the incoming request URL.
func RespondWithPage(c *gin.Context, results interface{}, count, page, pageSize int) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data: Page{
			Count:    count,
			Next:     pageLink(c, page, pageSize, count, +1),
			Previous: pageLink(c, page, pageSize, count, -1),
			Results:  results,
		},
	})
}

func pageLink(c *gin.Context, page, pageSize, count, dir int) *string {
	target := page + dir
	if target < 1 {
		return nil
	}
	lastPage := (count + pageSize - 1) / pageSize
	if lastPage < 1 {
		lastPage = 1
	}
	if target > lastPage {
		return nil
	}

	u := *c.Request.URL
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", target))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}
