package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a construction site. Workers reference projects by id
// (many-to-many via Worker.ProjectIDs).
type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID     primitive.ObjectID `bson:"orgId" json:"orgId"`
	Name      string             `bson:"name" json:"name"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
