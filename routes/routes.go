package routes

import (
	"net/http"

	"chudobludo/auth"
	"chudobludo/favorites"
	"chudobludo/middleware"
	"chudobludo/profile"
	"chudobludo/ratelim"
	"chudobludo/recipes"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

// AddRecipeRoutes: the literal segments "public", "user", "all" and the
// moderation verbs overlay the :id / :sub wildcards; handlers dispatch on
// them so the external paths stay exactly as published.
func AddRecipeRoutes(router *httprouter.Router) {
	router.POST("/recipes", middleware.Authenticate(recipes.CreateRecipe))
	router.GET("/recipes/:id", middleware.OptionalAuth(recipes.GetRecipe))
	router.GET("/recipes/:id/:sub", middleware.Authenticate(recipes.GetRecipeSub))
	router.PUT("/recipes/:id", middleware.Authenticate(recipes.UpdateRecipe))
	router.PUT("/recipes/:id/:sub", middleware.Authenticate(middleware.AdminOnly(recipes.ChangeStatus)))
	router.DELETE("/recipes/:id", middleware.Authenticate(recipes.DeleteRecipe))
}

func AddUserRoutes(router *httprouter.Router) {
	router.GET("/users/:id", middleware.Authenticate(profile.GetUserProfile))
	router.GET("/users/:id/favorites", middleware.Authenticate(favorites.ListFavorites))
	router.GET("/users/:id/favorites/:recipeId", middleware.Authenticate(favorites.GetFavoritesSub))
	router.PUT("/users/:id/favorites/:recipeId", middleware.Authenticate(favorites.AddFavorite))
	router.DELETE("/users/:id/favorites/:recipeId", middleware.Authenticate(favorites.RemoveFavorite))
}
