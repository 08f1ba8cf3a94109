package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation lets an organization bring in a viewer or collaborator.
type Invitation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"` // viewer or collaborator
	Token     string             `bson:"token" json:"-"`
	OrgID     primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
	Status    string             `bson:"status" json:"status"` // pending, accepted, expired
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
}

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// GetID implements generic.Entity.
func (i *Invitation) GetID() primitive.ObjectID { return i.ID }

// SetID implements generic.Entity.
func (i *Invitation) SetID(id primitive.ObjectID) { i.ID = id }
