package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"chudobludo/globals"
	"chudobludo/rdx"
	"chudobludo/tokens"
	"chudobludo/utils"

	"github.com/julienschmidt/httprouter"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func withIdentity(r *http.Request, claims *tokens.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, globals.IsAdminKey, claims.IsAdmin)
	return r.WithContext(ctx)
}

// Authenticate requires a valid bearer token and attaches the acting
// identity (user id + admin flag) to the request context.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearerToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		if rdx.IsTokenRevoked(r.Context(), token) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		next(w, withIdentity(r, claims), ps)
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// passes the request through untouched otherwise.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := bearerToken(r); token != "" {
			if claims, err := tokens.Parse(token); err == nil && !rdx.IsTokenRevoked(r.Context(), token) {
				r = withIdentity(r, claims)
			}
		}
		next(w, r, ps)
	}
}

// AdminOnly gates a handler to elevated sessions. Must run inside
// Authenticate.
func AdminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !utils.IsAdminFromContext(r.Context()) {
			utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r, ps)
	}
}

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
