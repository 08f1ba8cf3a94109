package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"obradoc/internal/model"
	"obradoc/pkg/generic"
)

// IPlanRepository defines plan persistence
type IPlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	FindByKey(ctx context.Context, key string) (*model.Plan, error)
	FindAll(ctx context.Context) ([]*model.Plan, error)
}

// PlanRepository builds on the generic base repository.
type PlanRepository struct {
	*generic.MongoBaseRepository[*model.Plan]
	collection *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) IPlanRepository {
	collection := db.Collection("plans")
	return &PlanRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Plan](collection),
		collection:          collection,
	}
}

func (r *PlanRepository) FindByKey(ctx context.Context, key string) (*model.Plan, error) {
	var plan *model.Plan
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

func (r *PlanRepository) FindAll(ctx context.Context) ([]*model.Plan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []*model.Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
