package recipes

import (
	"fmt"
	"unicode/utf8"

	"chudobludo/apperr"
	"chudobludo/models"
)

const (
	maxTitleLen       = 50
	maxDescriptionLen = 1000
	maxIngredientLen  = 50
	maxStepLen        = 1000
	maxServings       = 100
	maxCookingTime    = 100000
	maxQuantity       = 1000
)

func invalid(format string, args ...interface{}) *apperr.Error {
	return apperr.New(apperr.InvalidInput, fmt.Sprintf(format, args...))
}

// validatePayload checks the payload in a fixed order and stops at the
// first failure: required presence, then type/range, then cross-array
// lengths, then per-element rules.
func validatePayload(p *Payload) *apperr.Error {
	// Presence.
	if p.Title == "" {
		return invalid("title is required")
	}
	if p.Description == "" {
		return invalid("description is required")
	}
	if len(p.Categories) == 0 {
		return invalid("at least one category is required")
	}
	if p.Servings == 0 {
		return invalid("servings is required")
	}
	if p.CookingTime == 0 {
		return invalid("cookingTime is required")
	}
	if len(p.Ingredients) == 0 {
		return invalid("at least one ingredient is required")
	}

	// Ranges. Lengths are counted in characters, not bytes.
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return invalid("title must not exceed %d characters", maxTitleLen)
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		return invalid("description must not exceed %d characters", maxDescriptionLen)
	}
	if p.Servings < 1 || p.Servings > maxServings {
		return invalid("servings must be between 1 and %d", maxServings)
	}
	if p.CookingTime < 1 || p.CookingTime > maxCookingTime {
		return invalid("cookingTime must be between 1 and %d minutes", maxCookingTime)
	}

	// Cross-array lengths.
	if len(p.IngredientQuantities) != len(p.Ingredients) || len(p.IngredientUnits) != len(p.Ingredients) {
		return invalid("ingredients, ingredientQuantities and ingredientUnits must have the same length")
	}

	// Per-element rules.
	for i, c := range p.Categories {
		if !contains(models.Categories, c) {
			return invalid("categories[%d]: unknown category %q", i, c)
		}
	}
	for i, name := range p.Ingredients {
		if name == "" {
			return invalid("ingredients[%d]: name is required", i)
		}
		if utf8.RuneCountInString(name) > maxIngredientLen {
			return invalid("ingredients[%d]: name must not exceed %d characters", i, maxIngredientLen)
		}
	}
	for i, q := range p.IngredientQuantities {
		if q < 0 || q > maxQuantity {
			return invalid("ingredientQuantities[%d]: quantity must be between 0 and %d", i, maxQuantity)
		}
	}
	for i, u := range p.IngredientUnits {
		if !contains(models.Units, u) {
			return invalid("ingredientUnits[%d]: unknown unit %q", i, u)
		}
		if u == models.UnitToTaste && p.IngredientQuantities[i] != 0 {
			return invalid("ingredientQuantities[%d]: quantity must be 0 for the %q unit", i, models.UnitToTaste)
		}
	}
	for i, s := range p.Steps {
		if s.Description == "" {
			return invalid("steps[%d]: description is required", i)
		}
		if utf8.RuneCountInString(s.Description) > maxStepLen {
			return invalid("steps[%d]: description must not exceed %d characters", i, maxStepLen)
		}
	}

	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
