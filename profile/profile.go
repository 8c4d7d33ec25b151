package profile

import (
	"context"
	"log"
	"net/http"
	"time"

	"chudobludo/db"
	"chudobludo/models"
	"chudobludo/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUserProfile serves the GET /users/:id summary, self-or-admin only.
func GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	targetID := ps.ByName("id")
	if utils.GetUserIDFromContext(r.Context()) != targetID && !utils.IsAdminFromContext(r.Context()) {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	id, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("user lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	recipeCount, err := db.RecipeCollection.CountDocuments(ctx, bson.M{"author": user.ID})
	if err != nil {
		log.Printf("recipe count failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"username":       user.Username,
		"email":          user.Email,
		"recipeCount":    recipeCount,
		"favoritesCount": len(user.Favorites),
		"favorites":      user.Favorites,
		"isAdmin":        user.IsAdmin,
	})
}
