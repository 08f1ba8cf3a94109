package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/model"
)

// Claims is the JWT payload for a logged-in user.
type Claims struct {
	UserID     string   `json:"uid"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	OrgID      string   `json:"orgId,omitempty"`
	ProjectIDs []string `json:"projectIds,omitempty"`
	jwt.RegisteredClaims
}

// BuildClaims creates the claim set for a user with the given TTL.
func BuildClaims(user *model.User, ttl time.Duration) Claims {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(NormalizeRole(user.Role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if !user.OrgID.IsZero() {
		claims.OrgID = user.OrgID.Hex()
	}
	for _, pid := range user.ProjectIDs {
		claims.ProjectIDs = append(claims.ProjectIDs, pid.Hex())
	}
	return claims
}

// SignToken signs claims with the HS256 secret.
func SignToken(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return *claims, nil
	}
	return Claims{}, jwt.ErrSignatureInvalid
}

// SessionFromClaims materializes a request session from validated claims.
func (c Claims) Session() (*Session, error) {
	userID, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return nil, err
	}
	s := &Session{
		UserID: userID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   Role(c.Role),
	}
	if c.OrgID != "" {
		orgID, err := primitive.ObjectIDFromHex(c.OrgID)
		if err != nil {
			return nil, err
		}
		s.OrgID = orgID
	}
	for _, hex := range c.ProjectIDs {
		pid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		s.ProjectIDs = append(s.ProjectIDs, pid)
	}
	return s, nil
}
