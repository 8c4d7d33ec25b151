package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chudobludo/apperr"
	"chudobludo/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		action  string
		want    string
		wantErr bool
	}{
		{"approve pending", models.StatusPending, ActionApprove, models.StatusPublished, false},
		{"approve rejected", models.StatusRejected, ActionApprove, models.StatusPublished, false},
		{"approve published", models.StatusPublished, ActionApprove, "", true},
		{"reject pending", models.StatusPending, ActionReject, models.StatusRejected, false},
		{"reject rejected", models.StatusRejected, ActionReject, "", true},
		{"reject published", models.StatusPublished, ActionReject, "", true},
		{"reconsider rejected", models.StatusRejected, ActionReconsider, models.StatusPending, false},
		{"reconsider pending", models.StatusPending, ActionReconsider, "", true},
		{"reconsider published", models.StatusPublished, ActionReconsider, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := nextStatus(tt.current, tt.action)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, apperr.Conflict, err.Kind)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}

// Approving twice conflicts the second time.
func TestApproveIsIdempotentRejecting(t *testing.T) {
	next, err := nextStatus(models.StatusPending, ActionApprove)
	require.Nil(t, err)
	_, err = nextStatus(next, ActionApprove)
	require.NotNil(t, err)
	assert.Equal(t, apperr.Conflict, err.Kind)
}

// Reject then reconsider brings a recipe back to pending.
func TestRejectThenReconsider(t *testing.T) {
	rejected, err := nextStatus(models.StatusPending, ActionReject)
	require.Nil(t, err)
	back, err := nextStatus(rejected, ActionReconsider)
	require.Nil(t, err)
	assert.Equal(t, models.StatusPending, back)
}

// A non-admin edit forces re-moderation whatever the recipe's state; an
// admin edit never touches the status.
func TestStatusAfterEdit(t *testing.T) {
	for _, current := range []string{models.StatusPending, models.StatusPublished, models.StatusRejected} {
		assert.Equal(t, models.StatusPending, statusAfterEdit(false, current), "non-admin edit of %s", current)
		assert.Equal(t, current, statusAfterEdit(true, current), "admin edit of %s", current)
	}
}

func TestUnknownActionIsNotFound(t *testing.T) {
	_, err := nextStatus(models.StatusPending, "archive")
	require.NotNil(t, err)
	assert.Equal(t, apperr.NotFound, err.Kind)
}
