package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Name         string   `gorm:"not null"`
	Avatar       string
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	// Relations
	Reviews []Review `gorm:"foreignKey:AuthorID"`
}
