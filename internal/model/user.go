package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account within an organization. Role decides capabilities via
// the static permission table; permissions are never stored per-user.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"` // bcrypt, never exposed
	Role         string               `bson:"role" json:"role"`      // owner, support, subscriber, viewer, collaborator
	OrgID        primitive.ObjectID   `bson:"orgId,omitempty" json:"orgId,omitempty"`
	ProjectIDs   []primitive.ObjectID `bson:"projectIds,omitempty" json:"projectIds,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	CreatedBy    primitive.ObjectID   `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserResponse is the wire shape for user info (no credential material).
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OrgID      string    `json:"orgId,omitempty"`
	ProjectIDs []string  `json:"projectIds,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToResponse converts a User to its wire shape.
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if !u.OrgID.IsZero() {
		resp.OrgID = u.OrgID.Hex()
	}
	for _, pid := range u.ProjectIDs {
		resp.ProjectIDs = append(resp.ProjectIDs, pid.Hex())
	}
	return resp
}

// RegisterRequest is the payload for subscriber registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	OrgName  string `json:"orgName"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
