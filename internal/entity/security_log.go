package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	Signup              SecurityAction = "signup"
	LoginSuccess        SecurityAction = "login_success"
	LoginFailed         SecurityAction = "login_failed"
	Logout              SecurityAction = "logout"
	VerificationSent    SecurityAction = "verification_sent"
	EmailVerified       SecurityAction = "email_verified"
	SubscriptionChanged SecurityAction = "subscription_changed"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`

	Action SecurityAction `gorm:"type:varchar(32);not null;index"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
