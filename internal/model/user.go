package model

type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google"
)

type User struct {
	BaseModel
	Email        string       `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"size:255" json:"-"`
	Provider     AuthProvider `gorm:"size:50;default:'email'" json:"provider"`

	Messages []Message `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
