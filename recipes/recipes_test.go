package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chudobludo/models"
)

func TestCanView(t *testing.T) {
	author := primitive.NewObjectID()
	stranger := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		status  string
		userID  string
		isAdmin bool
		want    bool
	}{
		{"published visible to anyone", models.StatusPublished, stranger, false, true},
		{"pending hidden from strangers", models.StatusPending, stranger, false, false},
		{"rejected hidden from strangers", models.StatusRejected, stranger, false, false},
		{"pending visible to author", models.StatusPending, author.Hex(), false, true},
		{"rejected visible to author", models.StatusRejected, author.Hex(), false, true},
		{"pending visible to admin", models.StatusPending, stranger, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := &models.Recipe{Author: author, Status: tt.status}
			assert.Equal(t, tt.want, canView(recipe, tt.userID, tt.isAdmin))
		})
	}
}

func TestCanModify(t *testing.T) {
	author := primitive.NewObjectID()
	recipe := &models.Recipe{Author: author, Status: models.StatusPublished}

	assert.True(t, canModify(recipe, author.Hex(), false))
	assert.True(t, canModify(recipe, primitive.NewObjectID().Hex(), true))
	assert.False(t, canModify(recipe, primitive.NewObjectID().Hex(), false))
}

// The unauthenticated listing selects on the published status and nothing
// else; pending and rejected recipes can never match.
func TestPublicFilter(t *testing.T) {
	assert.Equal(t, bson.M{"status": models.StatusPublished}, publicFilter())
}
