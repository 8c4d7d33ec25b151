package recipes

import (
	"context"
	"log"
	"net/http"
	"time"

	"chudobludo/apperr"
	"chudobludo/db"
	"chudobludo/models"
	"chudobludo/mq"
	"chudobludo/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func storeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func fetchRecipe(ctx context.Context, hexID string) (*models.Recipe, *apperr.Error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "Recipe not found")
	}
	var recipe models.Recipe
	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "Recipe not found")
		}
		log.Printf("recipe lookup failed: %v", err)
		return nil, apperr.Upstream("failed to fetch recipe")
	}
	return &recipe, nil
}

func canModify(recipe *models.Recipe, userID string, isAdmin bool) bool {
	return isAdmin || recipe.Author.Hex() == userID
}

// canView implements the read rule: the author, an admin, or anyone once
// the recipe is published.
func canView(recipe *models.Recipe, userID string, isAdmin bool) bool {
	return recipe.Status == models.StatusPublished || canModify(recipe, userID, isAdmin)
}

// publicFilter matches exactly what the unauthenticated listing may serve.
func publicFilter() bson.M {
	return bson.M{"status": models.StatusPublished}
}

func identity(r *http.Request) (string, bool) {
	return utils.GetUserIDFromContext(r.Context()), utils.IsAdminFromContext(r.Context())
}

// CreateRecipe accepts a new submission. Whatever the caller's role, the
// recipe enters the moderation queue as pending, authored by the caller.
func CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	author, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token payload")
		return
	}

	payload, images, aerr := parseRequest(r)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	if aerr := validatePayload(payload); aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	// Media goes to the blob store first; a failed upload must not leave a
	// recipe behind.
	primaryURL, stepURLs, aerr := uploadImages(images)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	steps := make([]models.RecipeStep, len(payload.Steps))
	for i, s := range payload.Steps {
		steps[i] = models.RecipeStep{Description: s.Description, Image: stepURLs[i]}
	}

	recipe := models.Recipe{
		ID:                   primitive.NewObjectID(),
		Title:                payload.Title,
		Description:          payload.Description,
		Categories:           payload.Categories,
		Servings:             payload.Servings,
		CookingTime:          payload.CookingTime,
		Ingredients:          payload.Ingredients,
		IngredientQuantities: payload.IngredientQuantities,
		IngredientUnits:      payload.IngredientUnits,
		Image:                primaryURL,
		Steps:                steps,
		Author:               author,
		Status:               models.StatusPending,
		CreatedAt:            time.Now(),
	}

	ctx, cancel := storeCtx(r)
	defer cancel()

	if _, err := db.RecipeCollection.InsertOne(ctx, recipe); err != nil {
		log.Printf("recipe insert failed: %v", err)
		removeBlob(primaryURL)
		for _, url := range stepURLs {
			removeBlob(url)
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}

	// Not transactional with the insert: a crash here leaves a recipe
	// missing from its author's list.
	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": author},
		bson.M{"$push": bson.M{"createdRecipes": recipe.ID}},
	); err != nil {
		log.Printf("author list update failed for recipe %s: %v", recipe.ID.Hex(), err)
	}

	mq.Emit("recipe-created", mq.Index{EntityType: "recipe", Method: "POST", EntityId: recipe.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusCreated, recipe)
}

// GetRecipe serves GET /recipes/:id. The literal id "public" is the
// unauthenticated published-recipes listing; everything else requires a
// caller and is visible to its author, an admin, or anyone once published.
func GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "public" {
		listPublished(w, r)
		return
	}

	if utils.GetUserIDFromContext(r.Context()) == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	ctx, cancel := storeCtx(r)
	defer cancel()

	recipe, aerr := fetchRecipe(ctx, id)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	if userID, isAdmin := identity(r); !canView(recipe, userID, isAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot view this recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

func listPublished(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	listRecipes(ctx, w, publicFilter())
}

// GetRecipeSub serves GET /recipes/user/:userId and its admin overlay
// GET /recipes/user/all?status=...
func GetRecipeSub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "user" {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	ctx, cancel := storeCtx(r)
	defer cancel()

	sub := ps.ByName("sub")
	if sub == "all" {
		if !utils.IsAdminFromContext(r.Context()) {
			utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		status := r.URL.Query().Get("status")
		if !models.ValidStatus(status) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid status value")
			return
		}
		listRecipes(ctx, w, bson.M{"status": status})
		return
	}

	author, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	// No status filter and no ownership restriction beyond authentication;
	// this mirrors the original API surface.
	listRecipes(ctx, w, bson.M{"author": author})
}

func listRecipes(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	cursor, err := db.RecipeCollection.Find(ctx, filter, db.OptionsFindLatest(0))
	if err != nil {
		log.Printf("recipe list failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch recipes")
		return
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		log.Printf("recipe decode failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch recipes")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// UpdateRecipe is a full replace of the editable fields. Editing by anyone
// but an admin sends the recipe back through moderation.
func UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	recipe, aerr := fetchRecipe(ctx, ps.ByName("id"))
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	userID, isAdmin := identity(r)
	if !canModify(recipe, userID, isAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot edit this recipe")
		return
	}

	payload, images, aerr := parseRequest(r)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	if aerr := validatePayload(payload); aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	primaryURL, stepURLs, aerr := uploadImages(images)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	// Old blobs are only deleted once the document update has succeeded,
	// so a failed $set never leaves the stored recipe pointing at nothing.
	var staleBlobs []string

	// Primary image: explicit removal, replacement, or keep.
	image := recipe.Image
	switch {
	case primaryURL != "":
		staleBlobs = append(staleBlobs, recipe.Image)
		image = primaryURL
	case payload.RemoveImage:
		staleBlobs = append(staleBlobs, recipe.Image)
		image = ""
	}

	// Step images: a fresh upload for an index wins; otherwise the previous
	// image at that index carries over while the step lists align; dropped
	// or replaced old blobs are cleaned up.
	steps := make([]models.RecipeStep, len(payload.Steps))
	for i, s := range payload.Steps {
		steps[i] = models.RecipeStep{Description: s.Description}
		if url, ok := stepURLs[i]; ok {
			steps[i].Image = url
			if i < len(recipe.Steps) {
				staleBlobs = append(staleBlobs, recipe.Steps[i].Image)
			}
		} else if i < len(recipe.Steps) {
			steps[i].Image = recipe.Steps[i].Image
		}
	}
	for i := len(payload.Steps); i < len(recipe.Steps); i++ {
		staleBlobs = append(staleBlobs, recipe.Steps[i].Image)
	}

	status := statusAfterEdit(isAdmin, recipe.Status)

	update := bson.M{
		"title":                payload.Title,
		"description":          payload.Description,
		"categories":           payload.Categories,
		"servings":             payload.Servings,
		"cookingTime":          payload.CookingTime,
		"ingredients":          payload.Ingredients,
		"ingredientQuantities": payload.IngredientQuantities,
		"ingredientUnits":      payload.IngredientUnits,
		"image":                image,
		"steps":                steps,
		"status":               status,
	}
	if _, err := db.RecipeCollection.UpdateOne(ctx, bson.M{"_id": recipe.ID}, bson.M{"$set": update}); err != nil {
		log.Printf("recipe update failed: %v", err)
		for _, url := range stepURLs {
			removeBlob(url)
		}
		removeBlob(primaryURL)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}

	for _, url := range staleBlobs {
		removeBlob(url)
	}

	recipe.Title = payload.Title
	recipe.Description = payload.Description
	recipe.Categories = payload.Categories
	recipe.Servings = payload.Servings
	recipe.CookingTime = payload.CookingTime
	recipe.Ingredients = payload.Ingredients
	recipe.IngredientQuantities = payload.IngredientQuantities
	recipe.IngredientUnits = payload.IngredientUnits
	recipe.Image = image
	recipe.Steps = steps
	recipe.Status = status

	mq.Emit("recipe-updated", mq.Index{EntityType: "recipe", Method: "PUT", EntityId: recipe.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// DeleteRecipe removes the recipe, its media, the author-list entry and any
// favorites references. Blob deletions are best-effort.
func DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := storeCtx(r)
	defer cancel()

	recipe, aerr := fetchRecipe(ctx, ps.ByName("id"))
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}
	if userID, isAdmin := identity(r); !canModify(recipe, userID, isAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot delete this recipe")
		return
	}

	removeBlob(recipe.Image)
	for _, step := range recipe.Steps {
		removeBlob(step.Image)
	}

	if _, err := db.RecipeCollection.DeleteOne(ctx, bson.M{"_id": recipe.ID}); err != nil {
		log.Printf("recipe delete failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	// The cascades below are not transactional with the delete.
	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"_id": recipe.Author},
		bson.M{"$pull": bson.M{"createdRecipes": recipe.ID}},
	); err != nil {
		log.Printf("author list cleanup failed for recipe %s: %v", recipe.ID.Hex(), err)
	}
	if _, err := db.UserCollection.UpdateMany(ctx,
		bson.M{"favorites": recipe.ID},
		bson.M{"$pull": bson.M{"favorites": recipe.ID}},
	); err != nil {
		log.Printf("favorites cleanup failed for recipe %s: %v", recipe.ID.Hex(), err)
	}

	mq.Emit("recipe-deleted", mq.Index{EntityType: "recipe", Method: "DELETE", EntityId: recipe.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Recipe deleted"})
}

// ChangeStatus serves the admin transitions PUT /recipes/:id/approve,
// /reject and /reconsider. Routed behind AdminOnly.
func ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	action := ps.ByName("sub")

	ctx, cancel := storeCtx(r)
	defer cancel()

	recipe, aerr := fetchRecipe(ctx, ps.ByName("id"))
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	next, aerr := nextStatus(recipe.Status, action)
	if aerr != nil {
		utils.RespondWithAppError(w, aerr)
		return
	}

	if _, err := db.RecipeCollection.UpdateOne(ctx,
		bson.M{"_id": recipe.ID},
		bson.M{"$set": bson.M{"status": next}},
	); err != nil {
		log.Printf("status update failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	recipe.Status = next

	moderator := utils.GetUserIDFromContext(r.Context())
	rec := models.AuditRecord{Event: "recipe-" + action, UserID: moderator, Detail: recipe.ID.Hex(), At: time.Now()}
	if _, err := db.AuditCollection.InsertOne(ctx, rec); err != nil {
		log.Printf("audit write failed (recipe-%s): %v", action, err)
	}

	mq.Emit("recipe-"+action, mq.Index{EntityType: "recipe", Method: "PUT", EntityId: recipe.ID.Hex(), ItemType: next})
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}
