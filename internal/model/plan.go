package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// PlanFeatures bounds what an organization on the plan may create.
type PlanFeatures struct {
	MaxWorkers     int `bson:"maxWorkers" json:"maxWorkers"`
	MaxProjects    int `bson:"maxProjects" json:"maxProjects"`
	MaxViewers     int `bson:"maxViewers" json:"maxViewers"`
	StorageLimitGB int `bson:"storageLimitGb" json:"storageLimitGb"`
}

// Plan is a subscription tier. A zero limit means unlimited.
type Plan struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key      string             `bson:"key" json:"key"` // stable identifier, e.g. "basic"
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Currency string             `bson:"currency" json:"currency"`
	Interval string             `bson:"interval" json:"interval"` // month or year
	Features PlanFeatures       `bson:"features" json:"features"`
}

// GetID implements generic.Entity.
func (p *Plan) GetID() primitive.ObjectID { return p.ID }

// SetID implements generic.Entity.
func (p *Plan) SetID(id primitive.ObjectID) { p.ID = id }
