package db_models

type User struct {
	BaseModel
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"not null"`
	SubscriptionPlan string    `gorm:"not null;default:standard"`
	Profiles         []Profile `gorm:"foreignKey:OwnerID"`
}
