// Package httpresponse is the gin response envelope shared by every HTTP
// handler, grounded on the teacher's internal/shared/utils/response.go.
package httpresponse

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
)

// Envelope is the standard response shape for every /api/v1 endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ListEnvelope wraps a paginated collection.
type ListEnvelope struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
}

func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: "resource created successfully"})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func List(c *gin.Context, items interface{}, total int64, page, perPage int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: ListEnvelope{
		Items: items, Total: total, Page: page, PerPage: perPage, TotalPages: totalPages(total, perPage),
	}})
}

// Fail renders a raw status/message error, for cases with no AppError.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Success: false, Error: &ErrorInfo{Type: "error", Message: message}})
}

// FromError renders err as the envelope's error branch, mapping AppError's
// type onto its HTTP status and falling back to a generic 500 for anything
// un-typed so internals never leak to the client.
func FromError(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		c.JSON(apperrors.HTTPStatus(appErr.Type), Envelope{
			Success: false,
			Error:   &ErrorInfo{Type: string(appErr.Type), Message: appErr.Message, Details: appErr.Details},
		})
		return
	}
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Error:   &ErrorInfo{Type: string(apperrors.ErrorTypeValidation), Message: "request validation failed", Details: validationErrs.Error()},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   &ErrorInfo{Type: string(apperrors.ErrorTypeInternal), Message: "internal server error occurred"},
	})
}
