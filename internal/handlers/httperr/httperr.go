// Package httperr maps service errors onto huma status errors.
package httperr

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-recurring/internal/service"
)

// FromService converts err into a huma.StatusError. message is used for
// unexpected failures, which are reported as 500s.
func FromService(err error, message string) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return huma.NewError(http.StatusBadRequest, validationErr.Error(), &huma.ErrorDetail{
			Location: "body." + validationErr.Field,
			Message:  validationErr.Message,
		})
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrNotAnchor), errors.Is(err, service.ErrStaleRecord):
		return huma.Error409Conflict(err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, message, err)
}
