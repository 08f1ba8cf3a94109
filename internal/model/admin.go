package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaasAdmin is a platform-level administrator (owner or support).
type SaasAdmin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"` // owner or support
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SaasConfig is the singleton platform configuration record.
type SaasConfig struct {
	ID              string     `bson:"_id" json:"id"` // fixed key "setup"
	OwnerConfigured bool       `bson:"ownerConfigured" json:"ownerConfigured"`
	SetupDate       *time.Time `bson:"setupDate,omitempty" json:"setupDate,omitempty"`
}

// DeleteUserResult reports the outcome of a full user removal, including
// whether the credential record was deleted.
type DeleteUserResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AuthDeleted bool   `json:"authDeleted"`
}
