package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifDocumentExpiring = "document_expiring"
	NotifDocumentExpired  = "document_expired"
	NotifLimitExceeded    = "limit_exceeded"
)

// NotificationMetadata links a notification back to the records it is about.
type NotificationMetadata struct {
	DocumentID primitive.ObjectID `bson:"documentId,omitempty" json:"documentId,omitempty"`
	WorkerID   primitive.ObjectID `bson:"workerId,omitempty" json:"workerId,omitempty"`
	ProjectID  primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
}

// Notification is an in-app message for a single user.
type Notification struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Type      string               `bson:"type" json:"type"`
	Title     string               `bson:"title" json:"title"`
	Message   string               `bson:"message" json:"message"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Metadata  NotificationMetadata `bson:"metadata" json:"metadata"`
	Read      bool                 `bson:"read" json:"read"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
