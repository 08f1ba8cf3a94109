package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"obradoc/internal/model"
)

// IProjectRepository defines project persistence
type IProjectRepository interface {
	Create(ctx context.Context, project *model.Project) (*model.Project, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Project, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

// ProjectRepository implements project persistence over MongoDB
type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) IProjectRepository {
	return &ProjectRepository{collection: db.Collection("projects")}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		project.ID = oid
	}
	return project, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Project, error) {
	var project *model.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ProjectRepository) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"orgId": orgID})
}
