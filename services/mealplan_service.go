package services

import (
	"context"
	"errors"
	"math"
	"time"

	"backend/models"
	"backend/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTemplateNotFound = errors.New("diet plan template not found")
	ErrPlanNotFound     = errors.New("diet plan not found")
)

// Fixed calorie share per meal slot; the shares sum to exactly 1.0 and the
// rounding residual lands on lunch. Slot order comes from models.MealTimes.
var mealTimeShares = map[models.MealTime]float64{
	models.MealBreakfast: 0.275,
	models.MealLunch:     0.325,
	models.MealDinner:    0.275,
	models.MealSnack:     0.125,
}

// Default macro split of the derived daily target, as calorie fractions.
const (
	proteinCalorieShare = 0.25
	fatCalorieShare     = 0.30
	carbsCalorieShare   = 0.45
)

// DistributeCaloriesByMealTime splits total daily calories across the four
// slots. Every slot except lunch is rounded to 2 decimals; lunch absorbs the
// residual so the four values sum to the input exactly.
func DistributeCaloriesByMealTime(totalCalories float64) map[models.MealTime]float64 {
	out := make(map[models.MealTime]float64, len(mealTimeShares))
	var assigned float64
	for _, mt := range models.MealTimes() {
		if mt == models.MealLunch {
			continue
		}
		v := round2(totalCalories * mealTimeShares[mt])
		out[mt] = v
		assigned += v
	}
	out[models.MealLunch] = totalCalories - assigned
	return out
}

// BalanceMacrosForMeals derives per-slot macro grams proportional to each
// slot's calorie share, then renormalizes each slot so its implied calories
// match the slot target exactly.
func BalanceMacrosForMeals(daily Macros, slotCalories map[models.MealTime]float64) map[models.MealTime]Macros {
	out := make(map[models.MealTime]Macros, len(slotCalories))
	for mt, cal := range slotCalories {
		share := 0.0
		if daily.Calories > 0 {
			share = cal / daily.Calories
		}
		slot := Macros{
			Calories: cal,
			Protein:  daily.Protein * share,
			Fat:      daily.Fat * share,
			Carbs:    daily.Carbs * share,
		}
		out[mt] = RenormalizeMacros(slot, cal)
	}
	return out
}

type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// resolveTargets pulls macros from the template, or derives them from the
// user profile when no template is given.
func (s *MealPlanService) resolveTargets(ctx context.Context, user *models.User, templateID *uint) (Macros, error) {
	if templateID != nil {
		var tpl models.DietPlanTemplate
		err := s.db.WithContext(ctx).First(&tpl, *templateID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Macros{}, ErrTemplateNotFound
		}
		if err != nil {
			return Macros{}, err
		}
		return Macros{Calories: tpl.Calories, Protein: tpl.Protein, Fat: tpl.Fat, Carbs: tpl.Carbs}, nil
	}

	cal := utils.DailyCalorieTarget(user.Sex, utils.CalculateAge(user.Birthday), user.HeightCm, user.WeightKg, user.ActivityLevel)
	return Macros{
		Calories: math.Round(cal),
		Protein:  round2(cal * proteinCalorieShare / kcalPerGramProtein),
		Fat:      round2(cal * fatCalorieShare / kcalPerGramFat),
		Carbs:    round2(cal * carbsCalorieShare / kcalPerGramCarbs),
	}, nil
}

// pickRecipe chooses the allowed recipe whose per-portion calories sit
// closest to the slot target. Nil when nothing in the catalog passes the
// restriction mask.
func pickRecipe(recipes []models.Recipe, restrictions int64, targetCalories float64) *models.Recipe {
	var best *models.Recipe
	bestDist := math.MaxFloat64
	for i := range recipes {
		r := &recipes[i]
		if !utils.RecipeAllowed(r, restrictions) {
			continue
		}
		dist := math.Abs(r.CaloriesPerPortion - targetCalories)
		if dist < bestDist {
			best = r
			bestDist = dist
		}
	}
	return best
}

// GenerateMealPlan builds and persists a full day's plan for the user.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, userID uint, date time.Time, templateID *uint) (*models.DailyDietPlan, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	targets, err := s.resolveTargets(ctx, &user, templateID)
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Preload("Items").Find(&recipes).Error; err != nil {
		return nil, err
	}

	slotCalories := DistributeCaloriesByMealTime(targets.Calories)
	slotMacros := BalanceMacrosForMeals(targets, slotCalories)

	slots := models.MealTimes()
	plan := &models.DailyDietPlan{
		UserID:        userID,
		TemplateID:    templateID,
		Date:          dayStart(date),
		Calories:      targets.Calories,
		Protein:       targets.Protein,
		Fat:           targets.Fat,
		Carbs:         targets.Carbs,
		NumberOfMeals: len(slots),
		Status:        models.PlanActive,
	}

	missingRecipes := false
	for order, mt := range slots {
		m := slotMacros[mt]
		meal := models.Meal{
			MealTime: mt,
			Order:    order + 1,
			Calories: m.Calories,
			Protein:  m.Protein,
			Fat:      m.Fat,
			Carbs:    m.Carbs,
		}

		if recipe := pickRecipe(recipes, user.Restrictions, m.Calories); recipe != nil {
			mult := PortionMultiplier(recipe, m.Calories)
			meal.Recipes = []models.MealRecipe{{
				RecipeID:          recipe.ID,
				PortionMultiplier: mult,
				Portions:          BuildPortionsMetadata(recipe, mult),
			}}
		} else {
			missingRecipes = true
		}
		plan.Meals = append(plan.Meals, meal)
	}

	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	if missingRecipes {
		EmitAlert(userID, "warning", "Plan generated without recipes: "+noRecipeReason(recipes, user.Restrictions))
	}
	return plan, nil
}

// noRecipeReason explains why pickRecipe came up empty. When the catalog is
// non-empty that can only mean every recipe hit the restriction mask, so the
// shared allergen flags are named.
func noRecipeReason(recipes []models.Recipe, restrictions int64) string {
	if len(recipes) == 0 {
		return "the recipe catalog is empty"
	}
	var union int64
	for i := range recipes {
		union |= recipes[i].Allergens
	}
	if conflicts := utils.RestrictionConflicts(union, restrictions); conflicts != "" {
		return "every recipe conflicts with dietary restrictions: " + conflicts
	}
	return "no recipe in the catalog fits"
}

// GetPlan loads a plan with meals and portion metadata, checking ownership.
func (s *MealPlanService) GetPlan(ctx context.Context, userID, planID uint) (*models.DailyDietPlan, error) {
	var plan models.DailyDietPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("meal_order ASC") }).
		Preload("Meals.Recipes").
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlanByDate returns the newest plan for the given day.
func (s *MealPlanService) GetPlanByDate(ctx context.Context, userID uint, date time.Time) (*models.DailyDietPlan, error) {
	var plan models.DailyDietPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("meal_order ASC") }).
		Preload("Meals.Recipes").
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Order("created_at DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
