package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation states of a recipe. Every new recipe starts out pending.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusPublished || s == StatusRejected
}

// Category and unit tags are the wire values the original frontend sends;
// they must not be translated or renamed.
var Categories = []string{
	"Завтрак", "Обед", "Ужин",
	"Китайская кухня", "Итальянская кухня", "Русская кухня",
	"Горячее блюдо", "Закуски", "Десерт", "Напитки",
}

// UnitToTaste ("по вкусу") pairs only with quantity 0.
const UnitToTaste = "пв"

var Units = []string{"г", "кг", "мл", "л", "шт", "ст", "стл", "чл", UnitToTaste}

type RecipeStep struct {
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}

type Recipe struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Categories           []string           `bson:"categories" json:"categories"`
	Servings             int                `bson:"servings" json:"servings"`
	CookingTime          int                `bson:"cookingTime" json:"cookingTime"`
	Ingredients          []string           `bson:"ingredients" json:"ingredients"`
	IngredientQuantities []float64          `bson:"ingredientQuantities" json:"ingredientQuantities"`
	IngredientUnits      []string           `bson:"ingredientUnits" json:"ingredientUnits"`
	Image                string             `bson:"image,omitempty" json:"image,omitempty"`
	Steps                []RecipeStep       `bson:"steps" json:"steps"`
	Author               primitive.ObjectID `bson:"author" json:"author"`
	Status               string             `bson:"status" json:"status"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
