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

// IAdminRepository defines platform-admin persistence (saas_admins plus the
// saas_config singleton).
type IAdminRepository interface {
	CreateAdmin(ctx context.Context, admin *model.SaasAdmin) (*model.SaasAdmin, error)
	FindAdminByID(ctx context.Context, id primitive.ObjectID) (*model.SaasAdmin, error)
	FindAdminByEmail(ctx context.Context, email string) (*model.SaasAdmin, error)
	GetConfig(ctx context.Context) (*model.SaasConfig, error)
	MarkOwnerConfigured(ctx context.Context) error
}

// AdminRepository implements platform-admin persistence over MongoDB
type AdminRepository struct {
	admins *mongo.Collection
	config *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) IAdminRepository {
	return &AdminRepository{
		admins: db.Collection("saas_admins"),
		config: db.Collection("saas_config"),
	}
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *model.SaasAdmin) (*model.SaasAdmin, error) {
	admin.CreatedAt = time.Now()
	res, err := r.admins.InsertOne(ctx, admin)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return admin, nil
}

func (r *AdminRepository) FindAdminByID(ctx context.Context, id primitive.ObjectID) (*model.SaasAdmin, error) {
	var admin *model.SaasAdmin
	err := r.admins.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) FindAdminByEmail(ctx context.Context, email string) (*model.SaasAdmin, error) {
	var admin *model.SaasAdmin
	err := r.admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) GetConfig(ctx context.Context) (*model.SaasConfig, error) {
	var cfg *model.SaasConfig
	err := r.config.FindOne(ctx, bson.M{"_id": "setup"}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (r *AdminRepository) MarkOwnerConfigured(ctx context.Context) error {
	now := time.Now()
	_, err := r.config.ReplaceOne(ctx, bson.M{"_id": "setup"}, model.SaasConfig{
		ID:              "setup",
		OwnerConfigured: true,
		SetupDate:       &now,
	}, options.Replace().SetUpsert(true))
	return err
}
