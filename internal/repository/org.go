package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"obradoc/internal/model"
)

// IOrgRepository defines organization persistence
type IOrgRepository interface {
	Create(ctx context.Context, org *model.Organization) (*model.Organization, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.Organization, error)
	FindAll(ctx context.Context) ([]*model.Organization, error)
	FindByStatus(ctx context.Context, status string) ([]*model.Organization, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, orgID, userID primitive.ObjectID) error
}

// OrgRepository implements org persistence
type OrgRepository struct {
	collection *mongo.Collection
}

func NewOrgRepository(db *mongo.Database) IOrgRepository {
	return &OrgRepository{collection: db.Collection("organizations")}
}

func (r *OrgRepository) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.Status == "" {
		org.Status = model.OrgStatusActive
	}
	if org.Members == nil {
		org.Members = []primitive.ObjectID{}
	}
	res, err := r.collection.InsertOne(ctx, org)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		org.ID = oid
	}
	return org, nil
}

func (r *OrgRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OrgRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) (*model.Organization, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *OrgRepository) findOne(ctx context.Context, query bson.M) (*model.Organization, error) {
	var org *model.Organization
	err := r.collection.FindOne(ctx, query).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrgRepository) FindAll(ctx context.Context) ([]*model.Organization, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *OrgRepository) FindByStatus(ctx context.Context, status string) ([]*model.Organization, error) {
	return r.findMany(ctx, bson.M{"status": status})
}

func (r *OrgRepository) findMany(ctx context.Context, query bson.M) ([]*model.Organization, error) {
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orgs []*model.Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *OrgRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}})
	return err
}

func (r *OrgRepository) AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *OrgRepository) RemoveMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": orgID}, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}
