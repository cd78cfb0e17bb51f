package utils

import (
	"strings"

	"backend/models"
)

var restrictionNames = []struct {
	flag int64
	name string
}{
	{models.RestrictionGluten, "gluten"},
	{models.RestrictionLactose, "lactose"},
	{models.RestrictionNuts, "nuts"},
	{models.RestrictionSeafood, "seafood"},
	{models.RestrictionEggs, "eggs"},
	{models.RestrictionSoy, "soy"},
	{models.RestrictionHoney, "honey"},
	{models.RestrictionRedMeat, "red meat"},
	{models.RestrictionVegan, "non-vegan"},
}

// RecipeAllowed reports whether a recipe passes the user's restriction mask.
func RecipeAllowed(recipe *models.Recipe, restrictions int64) bool {
	return recipe.Allergens&restrictions == 0
}

// RestrictionConflicts names the flags shared by the two masks, for
// human-readable rejection reasons.
func RestrictionConflicts(allergens, restrictions int64) string {
	var hits []string
	for _, r := range restrictionNames {
		if allergens&restrictions&r.flag != 0 {
			hits = append(hits, r.name)
		}
	}
	return strings.Join(hits, ", ")
}
