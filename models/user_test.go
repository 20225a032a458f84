package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUser_BSONKeepsEmptyRoles(t *testing.T) {
	raw, err := bson.Marshal(User{UserID: "u1", Email: "a@x.com", Roles: []Role{}})
	require.NoError(t, err)

	doc := bson.M{}
	require.NoError(t, bson.Unmarshal(raw, &doc))
	require.Contains(t, doc, "roles")

	var back User
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.NotNil(t, back.Roles)
	assert.Empty(t, back.Roles)
}
