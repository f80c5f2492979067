package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	Role           string             `bson:"role"`      // teacher or student
	TimeZone       string             `bson:"time_zone"` // IANA name, empty means the app default
	TelegramChatID int64              `bson:"telegram_chat_id,omitempty"`
	ProExpiresAt   time.Time          `bson:"pro_expires_at,omitempty"`
	Verified       bool               `bson:"verified"`
	ResetToken     string             `bson:"reset_token,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TimeZone string `json:"time_zone"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name           string `json:"name"`
	TimeZone       string `json:"time_zone"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}
