package db_models

type Account struct {
	BaseModel
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Phone        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
