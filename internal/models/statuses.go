package models

type UserRole string
type ReviewStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	ReviewStatusPending          ReviewStatus = "pending"
	ReviewStatusApproved         ReviewStatus = "approved"
	ReviewStatusDenied           ReviewStatus = "denied"
	ReviewStatusChangesRequested ReviewStatus = "changes_requested"
)

// ValidReviewStatus проверяет, что статус - одно из четырех допустимых значений.
// Других значений в БД никогда не должно быть.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusDenied, ReviewStatusChangesRequested:
		return true
	default:
		return false
	}
}
