package services

import (
	"math"
	"strings"
	"testing"

	"backend/models"
)

func TestDistributeCaloriesByMealTime(t *testing.T) {
	got := DistributeCaloriesByMealTime(2000)

	want := map[models.MealTime]float64{
		models.MealBreakfast: 550,
		models.MealLunch:     650,
		models.MealDinner:    550,
		models.MealSnack:     250,
	}
	for mt, w := range want {
		if got[mt] != w {
			t.Errorf("%s = %v, want %v", mt, got[mt], w)
		}
	}
}

func TestDistributeCaloriesSumsExactly(t *testing.T) {
	for _, total := range []float64{0, 1, 1234.56, 1847, 2000, 3333.33} {
		got := DistributeCaloriesByMealTime(total)
		if len(got) != 4 {
			t.Fatalf("total %v: got %d slots, want 4", total, len(got))
		}
		var sum float64
		for _, v := range got {
			sum += v
		}
		if math.Abs(sum-total) > 1e-9 {
			t.Errorf("total %v: slot sum %v, residual not absorbed by lunch", total, sum)
		}
	}
}

func TestDistributeCoversAllMealTimes(t *testing.T) {
	got := DistributeCaloriesByMealTime(1800)
	for _, mt := range models.MealTimes() {
		if _, ok := got[mt]; !ok {
			t.Errorf("slot %s missing from the distribution", mt)
		}
	}
	if len(got) != len(models.MealTimes()) {
		t.Errorf("got %d slots, want %d", len(got), len(models.MealTimes()))
	}
}

func TestRenormalizeMacros(t *testing.T) {
	m := Macros{Protein: 100, Fat: 50, Carbs: 200}
	// implied: 100*4 + 50*9 + 200*4 = 1650
	got := RenormalizeMacros(m, 1650)
	if got.Protein != 100 || got.Fat != 50 || got.Carbs != 200 {
		t.Errorf("already-consistent macros must pass through unchanged, got %+v", got)
	}

	got = RenormalizeMacros(m, 825)
	if math.Abs(got.ImpliedCalories()-825) > 1e-9 {
		t.Errorf("implied calories %v, want 825", got.ImpliedCalories())
	}
	if math.Abs(got.Protein-50) > 1e-9 || math.Abs(got.Fat-25) > 1e-9 || math.Abs(got.Carbs-100) > 1e-9 {
		t.Errorf("macros must scale uniformly, got %+v", got)
	}

	zero := RenormalizeMacros(Macros{}, 500)
	if zero.Calories != 500 || zero.Protein != 0 || zero.Fat != 0 || zero.Carbs != 0 {
		t.Errorf("zero-gram input must only pick up the calorie target, got %+v", zero)
	}
}

func TestBalanceMacrosForMeals(t *testing.T) {
	// 2000 kcal split as 25% protein / 30% fat / 45% carbs, in grams.
	daily := Macros{
		Calories: 2000,
		Protein:  125,
		Fat:      2000 * 0.30 / 9,
		Carbs:    225,
	}
	slots := DistributeCaloriesByMealTime(daily.Calories)
	got := BalanceMacrosForMeals(daily, slots)

	var proteinSum, fatSum, carbSum, calSum float64
	for mt, m := range got {
		if math.Abs(m.ImpliedCalories()-slots[mt]) > 1e-6 {
			t.Errorf("%s: implied calories %v, want %v", mt, m.ImpliedCalories(), slots[mt])
		}
		if m.Calories != slots[mt] {
			t.Errorf("%s: calories %v, want %v", mt, m.Calories, slots[mt])
		}
		proteinSum += m.Protein
		fatSum += m.Fat
		carbSum += m.Carbs
		calSum += m.Calories
	}

	if calSum != daily.Calories {
		t.Errorf("slot calories sum %v, want %v", calSum, daily.Calories)
	}
	if math.Abs(proteinSum-daily.Protein) > 0.2 {
		t.Errorf("protein sum %v, want ~%v", proteinSum, daily.Protein)
	}
	if math.Abs(fatSum-daily.Fat) > 0.2 {
		t.Errorf("fat sum %v, want ~%v", fatSum, daily.Fat)
	}
	if math.Abs(carbSum-daily.Carbs) > 0.2 {
		t.Errorf("carbs sum %v, want ~%v", carbSum, daily.Carbs)
	}
}

func TestPickRecipe(t *testing.T) {
	recipes := []models.Recipe{
		{Name: "oatmeal", CaloriesPerPortion: 350},
		{Name: "omelette", CaloriesPerPortion: 520},
		{Name: "gluten bomb", CaloriesPerPortion: 500, Allergens: models.RestrictionGluten},
	}

	got := pickRecipe(recipes, 0, 500)
	if got == nil || got.Name != "gluten bomb" {
		t.Fatalf("unrestricted user should get the closest recipe, got %v", got)
	}

	got = pickRecipe(recipes, models.RestrictionGluten, 500)
	if got == nil || got.Name != "omelette" {
		t.Fatalf("gluten-free user should skip the conflicting recipe, got %v", got)
	}

	if got := pickRecipe(nil, 0, 500); got != nil {
		t.Errorf("empty catalog must yield nil, got %v", got)
	}
}

func TestNoRecipeReason(t *testing.T) {
	if got := noRecipeReason(nil, models.RestrictionGluten); got != "the recipe catalog is empty" {
		t.Errorf("empty catalog reason = %q", got)
	}

	recipes := []models.Recipe{
		{Name: "bread", Allergens: models.RestrictionGluten},
		{Name: "trail mix", Allergens: models.RestrictionNuts},
	}
	got := noRecipeReason(recipes, models.RestrictionGluten|models.RestrictionNuts)
	if !strings.Contains(got, "gluten, nuts") {
		t.Errorf("reason must name the conflicting flags, got %q", got)
	}
}
