package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the tenant boundary: every worker, project and document
// belongs to exactly one organization.
type Organization struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	OwnerID primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Members []primitive.ObjectID `bson:"members" json:"members"`
	PlanID  string               `bson:"planId" json:"planId"`
	Status  string               `bson:"status" json:"status"` // active, inactive, suspended

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	OrgStatusActive    = "active"
	OrgStatusInactive  = "inactive"
	OrgStatusSuspended = "suspended"
)
