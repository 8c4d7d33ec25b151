package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chudobludo/apperr"
	"chudobludo/globals"
)

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, http.StatusCreated, M{"ok": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["ok"])
}

func TestRespondWithAppError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithAppError(w, apperr.New(apperr.Forbidden, "Access denied"))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Access denied", body["message"])
}

func TestIdentityFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserIDFromContext(ctx))
	assert.False(t, IsAdminFromContext(ctx))

	ctx = context.WithValue(ctx, globals.UserIDKey, "user42")
	ctx = context.WithValue(ctx, globals.IsAdminKey, true)
	assert.Equal(t, "user42", GetUserIDFromContext(ctx))
	assert.True(t, IsAdminFromContext(ctx))
}
