package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"chudobludo/db"
	"chudobludo/models"
	"chudobludo/rdx"
	"chudobludo/tokens"
	"chudobludo/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// adminCode is the out-of-band elevation secret; empty disables elevation.
var adminCode string

func Init(code string) {
	adminCode = code
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "A user with this email already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("register lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := models.User{
		ID:             primitive.NewObjectID(),
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hash),
		CreatedRecipes: []primitive.ObjectID{},
		Favorites:      []primitive.ObjectID{},
		CreatedAt:      time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Printf("register insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := tokens.Sign(user.ID.Hex(), false)
	if err != nil {
		log.Printf("token sign failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token, "userId": user.ID.Hex()})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	// Elevation is an explicit, audited step: a plain login never yields an
	// admin session, even for admin accounts.
	elevated := false
	if req.Code != "" {
		if adminCode == "" || req.Code != adminCode || !user.IsAdmin {
			audit(ctx, "admin-elevation-denied", user.ID.Hex(), "")
			utils.RespondWithError(w, http.StatusForbidden, "Admin elevation denied")
			return
		}
		elevated = true
		audit(ctx, "admin-elevation", user.ID.Hex(), "")
	}

	token, err := tokens.Sign(user.ID.Hex(), elevated)
	if err != nil {
		log.Printf("token sign failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":   token,
		"userId":  user.ID.Hex(),
		"isAdmin": elevated,
	})
}

// LogoutUser revokes the presented token until it would have expired.
func LogoutUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims, err := tokens.Parse(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Token is not valid")
		return
	}
	if err := rdx.RevokeToken(r.Context(), token, claims.RemainingTTL()); err != nil {
		log.Printf("token revocation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Logged out"})
}

// RefreshToken exchanges a still-valid token for a fresh one with the same
// identity and elevation.
func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	token, err := tokens.Sign(userID, utils.IsAdminFromContext(r.Context()))
	if err != nil {
		log.Printf("token sign failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token, "userId": userID})
}

func audit(ctx context.Context, event, userID, detail string) {
	rec := models.AuditRecord{Event: event, UserID: userID, Detail: detail, At: time.Now()}
	if _, err := db.AuditCollection.InsertOne(ctx, rec); err != nil {
		log.Printf("audit write failed (%s): %v", event, err)
	}
}
