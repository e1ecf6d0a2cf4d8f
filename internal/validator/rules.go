package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"folio_backend/internal/models"
)

// registerCustomRules регистрирует кастомные правила валидации.
func registerCustomRules(v *validator.Validate) {
	// Ошибка регистрации правила - ошибка времени запуска,
	// приложение не должно стартовать.
	if err := v.RegisterValidation("is-review-status", validateReviewStatus); err != nil {
		log.Fatalf("failed to register custom validation tag 'is-review-status': %v", err)
	}
}

// 'is-review-status': статус отзыва - одно из четырех значений.
func validateReviewStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые обрабатывает 'required'
	}
	return models.ValidReviewStatus(models.ReviewStatus(value))
}
