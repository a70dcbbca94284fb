package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/voxpaper/paper-narrator/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrJobNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errInvalidField(field, value string) error {
	return fmt.Errorf("field %q has invalid value %q", field, value)
}
