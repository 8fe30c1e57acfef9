package service

import (
	"errors"
	"log/slog"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

var taxonomy = []error{
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrDuplicateEmail,
	domain.ErrInvalidCredentials,
	domain.ErrUnauthenticated,
	domain.ErrInvalidToken,
	domain.ErrForbidden,
	domain.ErrInternal,
}

// surface passes taxonomy errors through and turns anything else into
// domain.ErrInternal after logging it, so store details never reach the caller
func surface(log *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) {
		return err
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	log.Error(op+" failed", slog.String("error", err.Error()))
	return domain.ErrInternal
}
