package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/legalassist/errors"
)

// DataResponse is the success envelope for list endpoints.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries counts for list responses.
type Meta struct {
	Total int `json:"total"`
}

// RespondWithError renders err as an errors.Envelope with the AppError's
// status; anything that is not an AppError becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Envelope())
}

// RespondOK sends data as-is with 200.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondList wraps items in a DataResponse with their count.
func RespondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, DataResponse{Data: items, Meta: &Meta{Total: len(items)}})
}

// RespondRawJSON writes an already encoded JSON document.
func RespondRawJSON(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
