package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/model"
)

var jwtTestSecret = []byte("test-secret-not-for-production")

func testUser() *model.User {
	return &model.User{
		ID:         primitive.NewObjectID(),
		Name:       "Ana",
		Email:      "ana@example.com",
		Role:       "collaborator",
		OrgID:      primitive.NewObjectID(),
		ProjectIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := testUser()
	token, err := SignToken(BuildClaims(user, time.Hour), jwtTestSecret)
	require.NoError(t, err)

	claims, err := ParseToken(token, jwtTestSecret)
	require.NoError(t, err)

	session, err := claims.Session()
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, user.Email, session.Email)
	assert.Equal(t, RoleCollaborator, session.Role)
	assert.Equal(t, user.OrgID, session.OrgID)
	assert.Equal(t, user.ProjectIDs, session.ProjectIDs)
}

func TestTokenNormalizesLegacyRole(t *testing.T) {
	user := testUser()
	user.Role = "super"
	token, err := SignToken(BuildClaims(user, time.Hour), jwtTestSecret)
	require.NoError(t, err)

	claims, err := ParseToken(token, jwtTestSecret)
	require.NoError(t, err)
	session, err := claims.Session()
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, session.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := SignToken(BuildClaims(testUser(), -time.Minute), jwtTestSecret)
	require.NoError(t, err)

	_, err = ParseToken(token, jwtTestSecret)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := SignToken(BuildClaims(testUser(), time.Hour), jwtTestSecret)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ParseToken("not.a.token", jwtTestSecret)
	assert.Error(t, err)
}
