package utils

import (
	"math"
	"testing"
	"time"
)

func TestCalculateBMI(t *testing.T) {
	got, err := CalculateBMI(180, 81)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-25.0) > 1e-9 {
		t.Errorf("BMI = %v, want 25.0", got)
	}

	for _, c := range []struct{ h, w float64 }{
		{0, 80}, {180, 0}, {-170, 70}, {30, 70}, {180, 500},
	} {
		if _, err := CalculateBMI(c.h, c.w); err == nil {
			t.Errorf("CalculateBMI(%v, %v) should reject implausible input", c.h, c.w)
		}
	}
}

func TestCalculateAge(t *testing.T) {
	if got := CalculateAge(time.Time{}); got != 0 {
		t.Errorf("zero birthday age = %d, want 0", got)
	}

	thirtyYearsAgo := time.Now().AddDate(-30, 0, -1)
	if got := CalculateAge(thirtyYearsAgo); got != 30 {
		t.Errorf("age = %d, want 30", got)
	}
	notYetBirthday := time.Now().AddDate(-30, 0, 1)
	if got := CalculateAge(notYetBirthday); got != 29 {
		t.Errorf("age before this year's birthday = %d, want 29", got)
	}
}

func TestCalculateBMR(t *testing.T) {
	// Mifflin-St Jeor base: 10*70 + 6.25*175 - 5*30 = 1643.75
	if got := CalculateBMR("male", 30, 175, 70); got != 1648.75 {
		t.Errorf("male BMR = %v, want 1648.75", got)
	}
	if got := CalculateBMR("female", 30, 175, 70); got != 1482.75 {
		t.Errorf("female BMR = %v, want 1482.75", got)
	}
	if got := CalculateBMR(" Female ", 30, 175, 70); got != 1482.75 {
		t.Errorf("sex comparison must trim and fold case, got %v", got)
	}
	// anything that isn't female uses the male constant
	if got := CalculateBMR("", 30, 175, 70); got != 1648.75 {
		t.Errorf("unspecified sex BMR = %v, want 1648.75", got)
	}
}

func TestDailyCalorieTarget(t *testing.T) {
	// 1648.75 * 1.55 for a moderately active profile
	got := DailyCalorieTarget("male", 30, 175, 70, "moderate")
	if math.Abs(got-1648.75*1.55) > 1e-9 {
		t.Errorf("target = %v, want %v", got, 1648.75*1.55)
	}

	// unknown level falls back to the moderate factor
	if got := DailyCalorieTarget("male", 30, 175, 70, "couch"); math.Abs(got-1648.75*1.55) > 1e-9 {
		t.Errorf("unknown activity level should use the moderate factor, got %v", got)
	}

	// incomplete profiles fall back to 2000
	for _, c := range []struct {
		age            int
		height, weight float64
	}{
		{0, 175, 70}, {30, 0, 70}, {30, 175, 0},
	} {
		if got := DailyCalorieTarget("male", c.age, c.height, c.weight, "moderate"); got != 2000 {
			t.Errorf("incomplete profile (%+v) target = %v, want 2000", c, got)
		}
	}
}
