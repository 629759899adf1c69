package model

import "github.com/google/uuid"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of a user's conversation with the analyst.
type Message struct {
	BaseModel
	UserID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Role    MessageRole `gorm:"size:20;not null" json:"role"`
	Content string      `gorm:"type:text;not null" json:"content"`

	Owner *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
