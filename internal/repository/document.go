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

// DocumentFilter narrows an org-scoped document fetch. Zero-valued fields
// are ignored. Status is intentionally absent: the stored status is a cache
// and callers filter on it only after re-derivation.
type DocumentFilter struct {
	Types     []model.DocumentType
	Start     time.Time // uploadedAt >= Start (inclusive)
	End       time.Time // uploadedAt <= End (inclusive)
	WorkerIDs []primitive.ObjectID
	Category  string
	Tags      []string
}

// IDocumentRepository defines document persistence
type IDocumentRepository interface {
	Insert(ctx context.Context, doc *model.Document) (*model.Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Document, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID, filter DocumentFilter) ([]*model.Document, error)
	FindByWorker(ctx context.Context, workerID primitive.ObjectID) ([]*model.Document, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, updatedAt time.Time) error
	AppendAuditAction(ctx context.Context, id primitive.ObjectID, action model.AuditAction) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWorker(ctx context.Context, workerID primitive.ObjectID) error
	CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

// DocumentRepository implements document persistence over MongoDB
type DocumentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) IDocumentRepository {
	return &DocumentRepository{collection: db.Collection("documents")}
}

func (r *DocumentRepository) Insert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Document, error) {
	var doc *model.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID, filter DocumentFilter) ([]*model.Document, error) {
	query := bson.M{"orgId": orgID}

	if len(filter.Types) > 0 {
		query["type"] = bson.M{"$in": filter.Types}
	}
	if len(filter.WorkerIDs) > 0 {
		query["workerId"] = bson.M{"$in": filter.WorkerIDs}
	}
	if filter.Category != "" {
		query["metadata.category"] = filter.Category
	}
	if len(filter.Tags) > 0 {
		query["metadata.tags"] = bson.M{"$in": filter.Tags}
	}
	uploaded := bson.M{}
	if !filter.Start.IsZero() {
		uploaded["$gte"] = filter.Start
	}
	if !filter.End.IsZero() {
		uploaded["$lte"] = filter.End
	}
	if len(uploaded) > 0 {
		query["uploadedAt"] = uploaded
	}

	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*model.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) FindByWorker(ctx context.Context, workerID primitive.ObjectID) ([]*model.Document, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"workerId": workerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*model.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, updatedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":                status,
		"metadata.lastModified": updatedAt,
	}})
	return err
}

func (r *DocumentRepository) AppendAuditAction(ctx context.Context, id primitive.ObjectID, action model.AuditAction) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"auditLog.actions": action},
	})
	return err
}

func (r *DocumentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *DocumentRepository) DeleteByWorker(ctx context.Context, workerID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workerId": workerID})
	return err
}

func (r *DocumentRepository) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"orgId": orgID})
}
