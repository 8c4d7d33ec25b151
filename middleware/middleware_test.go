package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chudobludo/tokens"
	"chudobludo/utils"
)

func identityEcho() (httprouter.Handle, *string, *bool) {
	var userID string
	var isAdmin bool
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID = utils.GetUserIDFromContext(r.Context())
		isAdmin = utils.IsAdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, &userID, &isAdmin
}

func TestAuthenticate(t *testing.T) {
	tokens.Init("test-secret")

	valid, err := tokens.Sign("user42", false)
	require.NoError(t, err)
	admin, err := tokens.Sign("admin1", true)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not a bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, ""},
		{"valid token", "Bearer " + valid, http.StatusOK, "user42"},
		{"admin token", "Bearer " + admin, http.StatusOK, "admin1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, gotUser, _ := identityEcho()
			r := httptest.NewRequest(http.MethodGet, "/recipes/abc", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			Authenticate(handler)(w, r, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantUser, *gotUser)
		})
	}
}

func TestAuthenticateCarriesAdminFlag(t *testing.T) {
	tokens.Init("test-secret")
	token, err := tokens.Sign("admin1", true)
	require.NoError(t, err)

	handler, _, gotAdmin := identityEcho()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Authenticate(handler)(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *gotAdmin)
}

func TestOptionalAuth(t *testing.T) {
	tokens.Init("test-secret")
	token, err := tokens.Sign("user42", false)
	require.NoError(t, err)

	t.Run("without token passes through anonymously", func(t *testing.T) {
		handler, gotUser, _ := identityEcho()
		r := httptest.NewRequest(http.MethodGet, "/recipes/public", nil)
		w := httptest.NewRecorder()

		OptionalAuth(handler)(w, r, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, *gotUser)
	})

	t.Run("with token attaches identity", func(t *testing.T) {
		handler, gotUser, _ := identityEcho()
		r := httptest.NewRequest(http.MethodGet, "/recipes/public", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		OptionalAuth(handler)(w, r, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user42", *gotUser)
	})

	t.Run("with broken token stays anonymous", func(t *testing.T) {
		handler, gotUser, _ := identityEcho()
		r := httptest.NewRequest(http.MethodGet, "/recipes/public", nil)
		r.Header.Set("Authorization", "Bearer bogus")
		w := httptest.NewRecorder()

		OptionalAuth(handler)(w, r, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, *gotUser)
	})
}

func TestAdminOnly(t *testing.T) {
	tokens.Init("test-secret")

	userToken, err := tokens.Sign("user42", false)
	require.NoError(t, err)
	adminToken, err := tokens.Sign("admin1", true)
	require.NoError(t, err)

	t.Run("non-admin is forbidden", func(t *testing.T) {
		handler, _, _ := identityEcho()
		r := httptest.NewRequest(http.MethodPut, "/recipes/x/approve", nil)
		r.Header.Set("Authorization", "Bearer "+userToken)
		w := httptest.NewRecorder()

		Authenticate(AdminOnly(handler))(w, r, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		handler, gotUser, _ := identityEcho()
		r := httptest.NewRequest(http.MethodPut, "/recipes/x/approve", nil)
		r.Header.Set("Authorization", "Bearer "+adminToken)
		w := httptest.NewRecorder()

		Authenticate(AdminOnly(handler))(w, r, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin1", *gotUser)
	})
}
