package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-recurring/internal/service"
)

func TestFromService(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Field: "amount", Message: "must be greater than zero"}, http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrNotFound), http.StatusNotFound},
		{"not an anchor", service.ErrNotAnchor, http.StatusConflict},
		{"stale record", service.ErrStaleRecord, http.StatusConflict},
		{"unexpected", errors.New("database unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromService(tt.err, "request failed")

			var statusErr huma.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.GetStatus())
		})
	}
}
