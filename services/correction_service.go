package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecommendationNotFound   = errors.New("recommendation not found")
	ErrRecommendationNotPending = errors.New("recommendation is not pending")
	ErrPlanAlreadyCorrected     = errors.New("plan has already been corrected")
)

// CorrectionConfig holds the rule percentages. All values are percent points
// (10 means 10%).
type CorrectionConfig struct {
	// caps on how far a calorie-changing rule may move the target
	MaxCalorieIncreasePct float64
	MaxCalorieDecreasePct float64

	HighActivityCarbsUpPct float64
	HighActivityFatDownPct float64

	LowActivityCarbsDownPct float64
	LowActivityProteinUpPct float64

	SleepProteinUpPct float64
	SleepCarbsDownPct float64

	HeartRateCalorieDownPct float64
	HeartRateProteinUpPct   float64
	HeartRateCarbsDownPct   float64

	RecoveryProteinUpPct float64
	RecoveryFatUpPct     float64
	RecoveryCarbsDownPct float64
}

func DefaultCorrectionConfig() CorrectionConfig {
	return CorrectionConfig{
		MaxCalorieIncreasePct: 20,
		MaxCalorieDecreasePct: 25,

		HighActivityCarbsUpPct: 10,
		HighActivityFatDownPct: 10,

		LowActivityCarbsDownPct: 10,
		LowActivityProteinUpPct: 10,

		SleepProteinUpPct: 15,
		SleepCarbsDownPct: 10,

		HeartRateCalorieDownPct: 10,
		HeartRateProteinUpPct:   10,
		HeartRateCarbsDownPct:   10,

		RecoveryProteinUpPct: 15,
		RecoveryFatUpPct:     10,
		RecoveryCarbsDownPct: 15,
	}
}

// ---------- pure adjustment rules ----------

// AdjustCaloriesForHighActivity raises calories by deltaPct percent.
func AdjustCaloriesForHighActivity(calories, deltaPct float64) float64 {
	return calories * (1 + deltaPct/100)
}

// AdjustCaloriesForLowActivity lowers calories by deltaPct percent, floored
// at zero.
func AdjustCaloriesForLowActivity(calories, deltaPct float64) float64 {
	out := calories * (1 - deltaPct/100)
	if out < 0 {
		return 0
	}
	return out
}

func pctUp(v, pct float64) float64   { return v * (1 + pct/100) }
func pctDown(v, pct float64) float64 { return v * (1 - pct/100) }

// ApplyHighActivityRule raises the calorie target by deltaPct and shifts the
// mix toward carbs; grams are renormalized to the new, higher target.
func ApplyHighActivityRule(m Macros, deltaPct float64, cfg CorrectionConfig) Macros {
	if deltaPct > cfg.MaxCalorieIncreasePct {
		deltaPct = cfg.MaxCalorieIncreasePct
	}
	newCalories := AdjustCaloriesForHighActivity(m.Calories, deltaPct)
	shifted := Macros{
		Protein: m.Protein,
		Fat:     pctDown(m.Fat, cfg.HighActivityFatDownPct),
		Carbs:   pctUp(m.Carbs, cfg.HighActivityCarbsUpPct),
	}
	return RenormalizeMacros(shifted, newCalories)
}

// ApplyLowActivityRule lowers the calorie target by deltaPct (never below
// zero) and shifts the mix from carbs toward protein.
func ApplyLowActivityRule(m Macros, deltaPct float64, cfg CorrectionConfig) Macros {
	if deltaPct > cfg.MaxCalorieDecreasePct {
		deltaPct = cfg.MaxCalorieDecreasePct
	}
	newCalories := AdjustCaloriesForLowActivity(m.Calories, deltaPct)
	shifted := Macros{
		Protein: pctUp(m.Protein, cfg.LowActivityProteinUpPct),
		Fat:     m.Fat,
		Carbs:   pctDown(m.Carbs, cfg.LowActivityCarbsDownPct),
	}
	return RenormalizeMacros(shifted, newCalories)
}

// ApplySleepDeprivationRule keeps calories fixed, shifting protein up and
// carbs down.
func ApplySleepDeprivationRule(m Macros, cfg CorrectionConfig) Macros {
	shifted := Macros{
		Protein: pctUp(m.Protein, cfg.SleepProteinUpPct),
		Fat:     m.Fat,
		Carbs:   pctDown(m.Carbs, cfg.SleepCarbsDownPct),
	}
	return RenormalizeMacros(shifted, m.Calories)
}

// ApplyHeartRateAnomalyRule lowers calories by a fixed percentage and shifts
// protein up, carbs down.
func ApplyHeartRateAnomalyRule(m Macros, cfg CorrectionConfig) Macros {
	newCalories := AdjustCaloriesForLowActivity(m.Calories, cfg.HeartRateCalorieDownPct)
	shifted := Macros{
		Protein: pctUp(m.Protein, cfg.HeartRateProteinUpPct),
		Fat:     m.Fat,
		Carbs:   pctDown(m.Carbs, cfg.HeartRateCarbsDownPct),
	}
	return RenormalizeMacros(shifted, newCalories)
}

// ApplyRecoveryRule keeps calories fixed, raising protein and fat against
// carbs after a high-intensity/fatigue combination.
func ApplyRecoveryRule(m Macros, cfg CorrectionConfig) Macros {
	shifted := Macros{
		Protein: pctUp(m.Protein, cfg.RecoveryProteinUpPct),
		Fat:     pctUp(m.Fat, cfg.RecoveryFatUpPct),
		Carbs:   pctDown(m.Carbs, cfg.RecoveryCarbsDownPct),
	}
	return RenormalizeMacros(shifted, m.Calories)
}

// ---------- engine ----------

type CorrectionService struct {
	db       *gorm.DB
	activity *ActivityService
	sleep    *SleepService
	cfg      CorrectionConfig
}

func NewCorrectionService(db *gorm.DB, activity *ActivityService, sleep *SleepService) *CorrectionService {
	return &CorrectionService{
		db:       db,
		activity: activity,
		sleep:    sleep,
		cfg:      DefaultCorrectionConfig(),
	}
}

func planMacros(plan *models.DailyDietPlan) Macros {
	return Macros{Calories: plan.Calories, Protein: plan.Protein, Fat: plan.Fat, Carbs: plan.Carbs}
}

type triggeredRule struct {
	Type   models.RecommendationType
	Reason string
	Next   Macros
}

// evaluateRules runs the rule chain over the signals. Calorie-changing rules
// are mutually exclusive, evaluated by priority (heart-rate anomaly, then
// high activity, then low activity); calorie-neutral rules compound on top,
// each consuming the previous rule's output.
func evaluateRules(current Macros, activity *ActivityChangeResult, sleep *SleepQualityAnalysis, cfg CorrectionConfig) []triggeredRule {
	var rules []triggeredRule
	m := current

	highActivity := activity.StepsSpike ||
		(activity.IntensityChange != nil && *activity.IntensityChange > intensityChangeThreshold)
	lowActivity := (activity.StepsChange != nil && *activity.StepsChange < -stepsDropThreshold) ||
		(activity.IntensityChange != nil && *activity.IntensityChange < -intensityChangeThreshold)

	switch {
	case activity.HeartRateAnomaly:
		m = ApplyHeartRateAnomalyRule(m, cfg)
		rules = append(rules, triggeredRule{
			Type: models.RecHeartRateAnomaly,
			Reason: fmt.Sprintf(
				"Today's average heart rate %.0f bpm is outside the resting range [%.0f, %.0f]; calorie target lowered by %.0f%% with more protein and fewer carbs.",
				deref(activity.HeartRateToday), restingHeartRateMin, restingHeartRateMax, cfg.HeartRateCalorieDownPct),
			Next: m,
		})
	case highActivity:
		deltaPct := activityDeltaPct(activity)
		m = ApplyHighActivityRule(m, deltaPct, cfg)
		rules = append(rules, triggeredRule{
			Type: models.RecHighActivity,
			Reason: fmt.Sprintf(
				"Activity is %.0f%% above the weekly baseline; calorie target raised with a shift toward carbohydrates.",
				deltaPct),
			Next: m,
		})
	case lowActivity:
		deltaPct := activityDropPct(activity)
		m = ApplyLowActivityRule(m, deltaPct, cfg)
		rules = append(rules, triggeredRule{
			Type: models.RecLowActivity,
			Reason: fmt.Sprintf(
				"Activity is %.0f%% below the weekly baseline; calorie target lowered with a shift from carbs toward protein.",
				deltaPct),
			Next: m,
		})
	}

	if sleep.IsSleepDeprived {
		if highActivity {
			// fatigue after heavy load: recovery mix instead of the plain
			// sleep shift
			m = ApplyRecoveryRule(m, cfg)
			rules = append(rules, triggeredRule{
				Type: models.RecRecovery,
				Reason: fmt.Sprintf(
					"High training load combined with poor sleep (%.1f h average); recovery mix with more protein and fat, fewer carbs.",
					sleep.AvgSleepHours),
				Next: m,
			})
		} else {
			m = ApplySleepDeprivationRule(m, cfg)
			rules = append(rules, triggeredRule{
				Type: models.RecSleepDeprivation,
				Reason: fmt.Sprintf(
					"Average sleep of %.1f h over the last days indicates deprivation; protein raised and carbs lowered at unchanged calories.",
					sleep.AvgSleepHours),
				Next: m,
			})
		}
	}

	return rules
}

// activityDeltaPct converts the strongest positive activity signal into
// percent points.
func activityDeltaPct(a *ActivityChangeResult) float64 {
	var delta float64
	if a.StepsChange != nil && *a.StepsChange > delta {
		delta = *a.StepsChange
	}
	if a.IntensityChange != nil && *a.IntensityChange > delta {
		delta = *a.IntensityChange
	}
	return round2(delta * 100)
}

func activityDropPct(a *ActivityChangeResult) float64 {
	var drop float64
	if a.StepsChange != nil && -*a.StepsChange > drop {
		drop = -*a.StepsChange
	}
	if a.IntensityChange != nil && -*a.IntensityChange > drop {
		drop = -*a.IntensityChange
	}
	return round2(drop * 100)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// CheckAndSuggestCorrections evaluates the rule chain against today's
// signals and persists one pending recommendation per triggered rule.
func (s *CorrectionService) CheckAndSuggestCorrections(ctx context.Context, userID, planID uint) ([]models.Recommendation, error) {
	var plan models.DailyDietPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	activity, err := s.activity.CheckActivityChanges(ctx, userID, plan.Date)
	if err != nil {
		return nil, err
	}
	sleep, err := s.sleep.AnalyzeSleepQuality(ctx, userID, plan.Date, 0)
	if err != nil {
		return nil, err
	}

	prev := planMacros(&plan)
	rules := evaluateRules(prev, activity, sleep, s.cfg)

	recs := make([]models.Recommendation, 0, len(rules))
	for _, r := range rules {
		rec := models.Recommendation{
			DailyDietPlanID: plan.ID,
			Type:            r.Type,
			Status:          models.RecPending,
			Payload: models.SuggestedMacros{
				Reason:           r.Reason,
				PreviousCalories: round2(prev.Calories),
				PreviousProtein:  round2(prev.Protein),
				PreviousFat:      round2(prev.Fat),
				PreviousCarbs:    round2(prev.Carbs),
				Calories:         round2(r.Next.Calories),
				Protein:          round2(r.Next.Protein),
				Fat:              round2(r.Next.Fat),
				Carbs:            round2(r.Next.Carbs),
			},
		}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, err
		}
		EmitAlert(userID, "info", fmt.Sprintf("New diet correction suggested: %s", r.Reason))
		recs = append(recs, rec)
		prev = r.Next
	}
	return recs, nil
}

// ListRecommendations returns the plan's recommendations, newest first.
func (s *CorrectionService) ListRecommendations(ctx context.Context, userID, planID uint) ([]models.Recommendation, error) {
	var plan models.DailyDietPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	var recs []models.Recommendation
	err = s.db.WithContext(ctx).
		Where("daily_diet_plan_id = ?", planID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

// ApplyCorrection commits a pending recommendation to the plan and its meals
// as one atomic unit. The plan row is locked and re-read inside the
// transaction; the is_corrected flag rejects a second racing apply.
func (s *CorrectionService) ApplyCorrection(ctx context.Context, userID, planID, recommendationID uint) (*models.DailyDietPlan, error) {
	var out *models.DailyDietPlan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.DailyDietPlan
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Meals").
			Where("id = ? AND user_id = ?", planID, userID).
			First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		if err != nil {
			return err
		}
		if plan.IsCorrected {
			return ErrPlanAlreadyCorrected
		}

		var rec models.Recommendation
		err = tx.Where("id = ? AND daily_diet_plan_id = ?", recommendationID, planID).
			First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecommendationNotFound
		}
		if err != nil {
			return err
		}
		if rec.Status != models.RecPending {
			return ErrRecommendationNotPending
		}

		oldCalories := plan.Calories
		suggested := Macros{
			Calories: rec.Payload.Calories,
			Protein:  rec.Payload.Protein,
			Fat:      rec.Payload.Fat,
			Carbs:    rec.Payload.Carbs,
		}

		plan.Calories = suggested.Calories
		plan.Protein = suggested.Protein
		plan.Fat = suggested.Fat
		plan.Carbs = suggested.Carbs
		plan.IsCorrected = true
		if err := tx.Save(&plan).Error; err != nil {
			return err
		}

		// meals get the new macros proportionally to their existing calorie
		// share of the old plan
		for i := range plan.Meals {
			meal := &plan.Meals[i]
			share := 1.0 / float64(len(plan.Meals))
			if oldCalories > 0 {
				share = meal.Calories / oldCalories
			}
			meal.Calories = suggested.Calories * share
			meal.Protein = suggested.Protein * share
			meal.Fat = suggested.Fat * share
			meal.Carbs = suggested.Carbs * share
			if err := tx.Save(meal).Error; err != nil {
				return err
			}
		}

		rec.Status = models.RecApplied
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}

		out = &plan
		return nil
	})
	if err != nil {
		return nil, err
	}

	EmitAlert(userID, "info", "Diet plan corrected with the applied recommendation.")
	return out, nil
}

// RejectRecommendation marks a pending recommendation rejected.
func (s *CorrectionService) RejectRecommendation(ctx context.Context, userID, planID, recommendationID uint) error {
	var rec models.Recommendation
	err := s.db.WithContext(ctx).
		Joins("JOIN daily_diet_plans ON daily_diet_plans.id = recommendations.daily_diet_plan_id").
		Where("recommendations.id = ? AND recommendations.daily_diet_plan_id = ? AND daily_diet_plans.user_id = ?",
			recommendationID, planID, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecommendationNotFound
	}
	if err != nil {
		return err
	}
	if rec.Status != models.RecPending {
		return ErrRecommendationNotPending
	}
	rec.Status = models.RecRejected
	return s.db.WithContext(ctx).Save(&rec).Error
}

// menuMismatchThreshold is the relative calorie gap above which a recipe is
// reported as mismatched.
const menuMismatchThreshold = 0.10

// SuggestMenuChanges reports which selected recipes no longer fit the new
// targets. Advisory text only, nothing is mutated.
func (s *CorrectionService) SuggestMenuChanges(ctx context.Context, plan *models.DailyDietPlan, newTargets Macros) (string, error) {
	if plan == nil || len(plan.Meals) == 0 {
		return "No meals on the plan to review.", nil
	}

	newSlotCalories := DistributeCaloriesByMealTime(newTargets.Calories)

	var b strings.Builder
	mismatches := 0
	for _, meal := range plan.Meals {
		target := newSlotCalories[meal.MealTime]
		for _, mr := range meal.Recipes {
			var recipe models.Recipe
			if err := s.db.WithContext(ctx).First(&recipe, mr.RecipeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return "", err
			}
			provided := recipe.CaloriesPerPortion * mr.PortionMultiplier
			if target <= 0 {
				continue
			}
			gap := (provided - target) / target
			if math.Abs(gap) > menuMismatchThreshold {
				mismatches++
				b.WriteString(fmt.Sprintf(
					"%s: %q provides %.0f kcal but the new target is %.0f kcal (%+.0f%%); consider rescaling or swapping the recipe.\n",
					meal.MealTime, recipe.Name, provided, target, gap*100))
			}
		}
	}

	if mismatches == 0 {
		return "All selected recipes still fit the new targets.", nil
	}
	return b.String(), nil
}
