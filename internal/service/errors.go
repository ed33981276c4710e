// Package service holds the business rules on top of the repositories.
package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

// mapRepoError turns a repository error into an AppError. Errors that already are
// AppErrors pass through unchanged.
func mapRepoError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	if _, ok := models.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError(resource + " was modified concurrently, please retry")
	default:
		return models.NewInternalError(err)
	}
}

func requireUser(userID int) error {
	if userID <= 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}

func requireID(id int, resource string) error {
	if id <= 0 {
		return models.NewValidationError("Invalid " + resource + " ID")
	}
	return nil
}
