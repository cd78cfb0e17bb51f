package services

import (
	"math"
	"testing"

	"backend/models"
)

func testMacros() Macros {
	// 2000 kcal at 25% protein / 30% fat / 45% carbs
	return Macros{Calories: 2000, Protein: 125, Fat: 2000 * 0.30 / 9, Carbs: 225}
}

func proteinShare(m Macros) float64 { return m.Protein * kcalPerGramProtein / m.ImpliedCalories() }
func carbShare(m Macros) float64    { return m.Carbs * kcalPerGramCarbs / m.ImpliedCalories() }

func TestAdjustCalories(t *testing.T) {
	if got := AdjustCaloriesForHighActivity(2000, 10); got != 2200 {
		t.Errorf("high activity +10%% on 2000 = %v, want 2200", got)
	}
	if got := AdjustCaloriesForLowActivity(2000, 20); got != 1600 {
		t.Errorf("low activity -20%% on 2000 = %v, want 1600", got)
	}
	if got := AdjustCaloriesForLowActivity(100, 200); got != 0 {
		t.Errorf("low activity must floor at zero, got %v", got)
	}
}

func TestApplyHighActivityRule(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	m := testMacros()

	got := ApplyHighActivityRule(m, 10, cfg)
	if got.Calories != 2200 {
		t.Errorf("calories = %v, want 2200", got.Calories)
	}
	if math.Abs(got.ImpliedCalories()-2200) > 1e-6 {
		t.Errorf("implied calories %v, want 2200", got.ImpliedCalories())
	}
	if carbShare(got) <= carbShare(m) {
		t.Errorf("carb share must rise: %v -> %v", carbShare(m), carbShare(got))
	}

	// delta above the cap is clamped
	capped := ApplyHighActivityRule(m, 50, cfg)
	if capped.Calories != 2400 {
		t.Errorf("capped calories = %v, want 2400 (+20%% max)", capped.Calories)
	}
}

func TestApplyLowActivityRule(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	m := testMacros()

	got := ApplyLowActivityRule(m, 20, cfg)
	if got.Calories != 1600 {
		t.Errorf("calories = %v, want 1600", got.Calories)
	}
	if math.Abs(got.ImpliedCalories()-1600) > 1e-6 {
		t.Errorf("implied calories %v, want 1600", got.ImpliedCalories())
	}
	if proteinShare(got) <= proteinShare(m) || carbShare(got) >= carbShare(m) {
		t.Errorf("mix must shift from carbs toward protein, got %+v", got)
	}

	capped := ApplyLowActivityRule(m, 80, cfg)
	if capped.Calories != 1500 {
		t.Errorf("capped calories = %v, want 1500 (-25%% max)", capped.Calories)
	}
}

func TestApplySleepDeprivationRule(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	m := testMacros()

	got := ApplySleepDeprivationRule(m, cfg)
	if got.Calories != m.Calories {
		t.Errorf("sleep rule must not change calories: %v -> %v", m.Calories, got.Calories)
	}
	if math.Abs(got.ImpliedCalories()-m.Calories) > 1e-6 {
		t.Errorf("implied calories %v, want %v", got.ImpliedCalories(), m.Calories)
	}
	if got.Protein <= m.Protein {
		t.Errorf("protein grams must rise at fixed calories: %v -> %v", m.Protein, got.Protein)
	}
	if got.Carbs >= m.Carbs {
		t.Errorf("carb grams must fall at fixed calories: %v -> %v", m.Carbs, got.Carbs)
	}
}

func TestApplyHeartRateAnomalyRule(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	m := testMacros()

	got := ApplyHeartRateAnomalyRule(m, cfg)
	if got.Calories != 1800 {
		t.Errorf("calories = %v, want 1800 (-10%%)", got.Calories)
	}
	if proteinShare(got) <= proteinShare(m) || carbShare(got) >= carbShare(m) {
		t.Errorf("mix must shift from carbs toward protein, got %+v", got)
	}
}

func TestApplyRecoveryRule(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	m := testMacros()

	got := ApplyRecoveryRule(m, cfg)
	if got.Calories != m.Calories {
		t.Errorf("recovery rule must not change calories: %v -> %v", m.Calories, got.Calories)
	}
	if got.Protein <= m.Protein {
		t.Errorf("protein grams must rise: %v -> %v", m.Protein, got.Protein)
	}
	if carbShare(got) >= carbShare(m) {
		t.Errorf("carb share must fall, got %+v", got)
	}
}

func fp(v float64) *float64 { return &v }

func TestEvaluateRulesHeartRateWinsOverActivity(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	activity := &ActivityChangeResult{
		HeartRateToday:   fp(120),
		HeartRateAnomaly: true,
		StepsChange:      fp(0.50),
		StepsSpike:       true,
	}
	rules := evaluateRules(testMacros(), activity, &SleepQualityAnalysis{}, cfg)

	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if rules[0].Type != models.RecHeartRateAnomaly {
		t.Errorf("rule type = %s, want heart rate anomaly", rules[0].Type)
	}
	if rules[0].Next.Calories != 1800 {
		t.Errorf("next calories = %v, want 1800", rules[0].Next.Calories)
	}
}

func TestEvaluateRulesHighActivityThenRecovery(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	activity := &ActivityChangeResult{
		StepsChange: fp(0.50),
		StepsSpike:  true,
	}
	sleep := &SleepQualityAnalysis{AvgSleepHours: 4.5, IsSleepDeprived: true, RecordsUsed: 3}

	rules := evaluateRules(testMacros(), activity, sleep, cfg)
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Type != models.RecHighActivity {
		t.Errorf("first rule = %s, want high activity", rules[0].Type)
	}
	if rules[1].Type != models.RecRecovery {
		t.Errorf("second rule = %s, want recovery (not the plain sleep rule)", rules[1].Type)
	}
	// +50% is capped at +20%
	if rules[0].Next.Calories != 2400 {
		t.Errorf("high activity calories = %v, want 2400", rules[0].Next.Calories)
	}
	// the calorie-neutral recovery rule chains off the first rule's output
	if rules[1].Next.Calories != rules[0].Next.Calories {
		t.Errorf("recovery must keep the chained calories: %v != %v",
			rules[1].Next.Calories, rules[0].Next.Calories)
	}
	if rules[1].Next.Protein <= rules[0].Next.Protein {
		t.Errorf("recovery must raise protein over the chained input")
	}
}

func TestEvaluateRulesLowActivityAndSleep(t *testing.T) {
	cfg := DefaultCorrectionConfig()
	activity := &ActivityChangeResult{StepsChange: fp(-0.40)}
	sleep := &SleepQualityAnalysis{AvgSleepHours: 5, IsSleepDeprived: true, RecordsUsed: 3}

	rules := evaluateRules(testMacros(), activity, sleep, cfg)
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Type != models.RecLowActivity || rules[1].Type != models.RecSleepDeprivation {
		t.Errorf("rule order = %s, %s; want low activity then sleep deprivation",
			rules[0].Type, rules[1].Type)
	}
	// -40% is capped at the -25% maximum decrease
	if rules[0].Next.Calories != 1500 {
		t.Errorf("low activity calories = %v, want 1500", rules[0].Next.Calories)
	}
}

func TestEvaluateRulesQuietDay(t *testing.T) {
	rules := evaluateRules(testMacros(), &ActivityChangeResult{}, &SleepQualityAnalysis{}, DefaultCorrectionConfig())
	if len(rules) != 0 {
		t.Errorf("no signals must trigger no rules, got %d", len(rules))
	}

	// a small fluctuation below every threshold stays quiet too
	activity := &ActivityChangeResult{
		StepsChange:     fp(0.10),
		IntensityChange: fp(-0.10),
		HeartRateToday:  fp(72),
	}
	rules = evaluateRules(testMacros(), activity, &SleepQualityAnalysis{AvgSleepHours: 7.5}, DefaultCorrectionConfig())
	if len(rules) != 0 {
		t.Errorf("sub-threshold signals must trigger no rules, got %d", len(rules))
	}
}

func TestActivityDeltaPct(t *testing.T) {
	a := &ActivityChangeResult{StepsChange: fp(0.35), IntensityChange: fp(0.50)}
	if got := activityDeltaPct(a); got != 50 {
		t.Errorf("delta pct = %v, want 50 (strongest signal)", got)
	}
	d := &ActivityChangeResult{StepsChange: fp(-0.45)}
	if got := activityDropPct(d); got != 45 {
		t.Errorf("drop pct = %v, want 45", got)
	}
	if got := activityDeltaPct(&ActivityChangeResult{}); got != 0 {
		t.Errorf("delta pct with no signals = %v, want 0", got)
	}
}
