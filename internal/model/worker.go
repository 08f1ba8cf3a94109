package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker is a construction-site worker whose compliance documents are tracked.
type Worker struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrgID          primitive.ObjectID   `bson:"orgId" json:"orgId"`
	Name           string               `bson:"name" json:"name"`
	DocumentNumber string               `bson:"documentNumber" json:"documentNumber"` // 8-digit national ID
	ProjectIDs     []primitive.ObjectID `bson:"projectIds" json:"projectIds"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	CreatedBy      primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
