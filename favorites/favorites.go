// Package favorites is the per-user ledger of favorited recipes. Every
// operation is gated to the owning user or an admin.
package favorites

import (
	"context"
	"log"
	"net/http"
	"time"

	"chudobludo/apperr"
	"chudobludo/db"
	"chudobludo/models"
	"chudobludo/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func storeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

// fetchTargetUser resolves the :id route param after the self-or-admin gate.
func fetchTargetUser(ctx context.Context, r *http.Request, ps httprouter.Params) (*models.User, *apperr.Error) {
	targetID := ps.ByName("id")
	if utils.GetUserIDFromContext(r.Context()) != targetID && !utils.IsAdminFromContext(r.Context()) {
		return nil, apperr.New(apperr.Forbidden, "Access denied")
	}
	id, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		log.Printf("user lookup failed: %v", err)
		return nil, apperr.Upstream("failed to fetch user")
	}
	return &user, nil
}

func hasFavorite(user *models.User, recipeID primitive.ObjectID) bool {
	for _, id := range user.Favorites {
		if id == recipeID {
			return true
		}
	}
	return false
}

// addFavoriteError decides whether a recipe may enter the set: it must
// exist and be published (anything else reads as absent), and must not be
// there already.
func addFavoriteError(user *models.User, recipe *models.Recipe) *apperr.Error {
	if recipe == nil || recipe.Status != models.StatusPublished {
		return apperr.New(apperr.NotFound, "Recipe not found")
	}
	if hasFavorite(user, recipe.ID) {
		return apperr.New(apperr.Conflict, "Recipe is already in favorites")
	}
	return nil
}

// removeFavoriteError rejects removal of a recipe that is not in the set.
func removeFavoriteError(user *models.User, recipeID primitive.ObjectID) *apperr.Error {
	if !hasFavorite(user, recipeID) {
		return apperr.New(apperr.NotFound, "Recipe is not in favorites")
	}
	return nil
}

// ListFavorites returns the populated favorites set.
func ListFavorites(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	user, aerr := fetchTargetUser(ctx, r, ps)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	recipes := []models.Recipe{}
	if len(user.Favorites) > 0 {
		cursor, err := db.RecipeCollection.Find(ctx, bson.M{"_id": bson.M{"$in": user.Favorites}})
		if err != nil {
			log.Printf("favorites fetch failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch favorites")
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &recipes); err != nil {
			log.Printf("favorites decode failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch favorites")
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// GetFavoritesSub only serves the /count overlay of the :recipeId segment.
func GetFavoritesSub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("recipeId") != "count" {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	ctx, cancel := storeCtx(r)
	defer cancel()

	user, aerr := fetchTargetUser(ctx, r, ps)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(user.Favorites)})
}

// AddFavorite appends a published recipe to the set and returns the new
// count. Unknown or unpublished recipes read as absent.
func AddFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	user, aerr := fetchTargetUser(ctx, r, ps)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	recipeID, err := primitive.ObjectIDFromHex(ps.ByName("recipeId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	var target *models.Recipe
	var recipe models.Recipe
	switch err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err {
	case nil:
		target = &recipe
	case mongo.ErrNoDocuments:
		// stays nil; addFavoriteError reports it as absent
	default:
		log.Printf("recipe lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch recipe")
		return
	}

	if aerr := addFavoriteError(user, target); aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"favorites": recipeID}},
	); err != nil {
		log.Printf("favorite add failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(user.Favorites) + 1})
}

// RemoveFavorite drops a recipe from the set and returns the new count.
func RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	user, aerr := fetchTargetUser(ctx, r, ps)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	recipeID, err := primitive.ObjectIDFromHex(ps.ByName("recipeId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe is not in favorites")
		return
	}
	if aerr := removeFavoriteError(user, recipeID); aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$pull": bson.M{"favorites": recipeID}},
	); err != nil {
		log.Printf("favorite remove failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update favorites")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(user.Favorites) - 1})
}
