package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"obradoc/internal/model"
	"obradoc/pkg/generic"
)

// IInvitationRepository defines invitation persistence
type IInvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id string) (*model.Invitation, error)
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id string) error
}

// InvitationRepository builds on the generic base repository for the
// plain CRUD half and adds the token/org lookups.
type InvitationRepository struct {
	*generic.MongoBaseRepository[*model.Invitation]
	collection *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) IInvitationRepository {
	collection := db.Collection("invitations")
	return &InvitationRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Invitation](collection),
		collection:          collection,
	}
}

func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv *model.Invitation
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *InvitationRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invitations []*model.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}
