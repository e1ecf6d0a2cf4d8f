package auth

import (
	"errors"

	"folio_backend/internal/models"
)

// ValidateRole проверяет валидность роли.
func ValidateRole(role models.UserRole) error {
	switch role {
	case models.UserRoleAdmin, models.UserRoleUser:
		return nil
	default:
		return errors.New("invalid role")
	}
}
