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

// INotificationRepository defines notification persistence
type INotificationRepository interface {
	Insert(ctx context.Context, n *model.Notification) (*model.Notification, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Notification, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// NotificationRepository implements notification persistence over MongoDB
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) INotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return n, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Notification, error) {
	var n *model.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []*model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"read":      true,
		"updatedAt": time.Now(),
	}})
	return err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}
