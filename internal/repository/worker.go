package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"obradoc/internal/model"
)

// IWorkerRepository defines worker persistence
type IWorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) (*model.Worker, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Worker, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Worker, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Worker, error)
	FindByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]*model.Worker, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	AddToProject(ctx context.Context, workerID, projectID primitive.ObjectID) error
	RemoveFromProject(ctx context.Context, workerID, projectID primitive.ObjectID) error
	RemoveProjectFromAll(ctx context.Context, projectID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

// WorkerRepository implements worker persistence over MongoDB
type WorkerRepository struct {
	collection *mongo.Collection
}

func NewWorkerRepository(db *mongo.Database) IWorkerRepository {
	return &WorkerRepository{collection: db.Collection("workers")}
}

func (r *WorkerRepository) Create(ctx context.Context, worker *model.Worker) (*model.Worker, error) {
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	if worker.ProjectIDs == nil {
		worker.ProjectIDs = []primitive.ObjectID{}
	}
	res, err := r.collection.InsertOne(ctx, worker)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		worker.ID = oid
	}
	return worker, nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Worker, error) {
	var worker *model.Worker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return worker, nil
}

func (r *WorkerRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Worker, error) {
	return r.find(ctx, bson.M{"orgId": orgID})
}

func (r *WorkerRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Worker, error) {
	return r.find(ctx, bson.M{"projectIds": projectID})
}

func (r *WorkerRepository) FindByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]*model.Worker, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"projectIds": bson.M{"$in": projectIDs}})
}

func (r *WorkerRepository) find(ctx context.Context, query bson.M) ([]*model.Worker, error) {
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workers []*model.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *WorkerRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *WorkerRepository) AddToProject(ctx context.Context, workerID, projectID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": workerID}, bson.M{
		"$addToSet": bson.M{"projectIds": projectID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *WorkerRepository) RemoveFromProject(ctx context.Context, workerID, projectID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": workerID}, bson.M{
		"$pull": bson.M{"projectIds": projectID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *WorkerRepository) RemoveProjectFromAll(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"projectIds": projectID}, bson.M{
		"$pull": bson.M{"projectIds": projectID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *WorkerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *WorkerRepository) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"orgId": orgID})
}
