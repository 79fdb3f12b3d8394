package entity

import (
	"time"

	"phonebook/internal/validation"

	"github.com/google/uuid"
)

type SubscriptionTier string

const (
	SubscriptionStarter  SubscriptionTier = "starter"
	SubscriptionPro      SubscriptionTier = "pro"
	SubscriptionBusiness SubscriptionTier = "business"
)

const DefaultSubscriptionTier = SubscriptionStarter

func SubscriptionTiers() []string {
	return []string{string(SubscriptionStarter), string(SubscriptionPro), string(SubscriptionBusiness)}
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`

	SubscriptionTier SubscriptionTier `gorm:"type:varchar(16);default:'starter';not null"`

	// SessionToken holds the only token that AuthGate accepts for this user.
	SessionToken *string `gorm:"type:text" json:"-"`

	Verified              bool    `gorm:"default:false;not null"`
	VerificationTokenHash *string `gorm:"type:text" json:"-"`

	AvatarURL string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Field names accepted from clients.
const (
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldSubscriptionTier = "subscriptionTier"
)

// UserRules validates user supplied credentials. The email length cap keeps
// session tokens, which embed the email, reasonably small. Passwords are
// capped at bcrypt's 72 byte input limit.
var UserRules = validation.RuleSet{
	FieldEmail: validation.String("email").
		Trim().
		Lower().
		Check("email,max=100"),
	FieldPassword: validation.String("password").
		Trim().
		Check("alphanum,min=8,max=72"),
	FieldSubscriptionTier: validation.String("subscriptionTier").
		Trim().
		Lower().
		OneOf(SubscriptionTiers()...).
		Default(string(DefaultSubscriptionTier)),
}
