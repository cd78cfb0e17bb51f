package services

import (
	"math"
	"testing"

	"backend/models"
)

func TestPortionMultiplier(t *testing.T) {
	recipe := &models.Recipe{CaloriesPerPortion: 500}
	if got := PortionMultiplier(recipe, 650); math.Abs(got-1.3) > 1e-9 {
		t.Errorf("multiplier = %v, want 1.3", got)
	}

	// recipes without calorie data must scale by exactly 1
	for _, cal := range []float64{0, -10} {
		r := &models.Recipe{CaloriesPerPortion: cal}
		for _, target := range []float64{0, 100, 5000} {
			if got := PortionMultiplier(r, target); got != 1 {
				t.Errorf("multiplier(cal=%v, target=%v) = %v, want 1", cal, target, got)
			}
		}
	}

	if got := PortionMultiplier(nil, 400); got != 1 {
		t.Errorf("multiplier(nil) = %v, want 1", got)
	}
}

func TestRoundPortionIdempotent(t *testing.T) {
	for _, g := range []float64{0, 2.4, 2.5, 7.5, 12.3, 99.9, 102.5, 997.4, 1000} {
		once := RoundPortion(g)
		twice := RoundPortion(once)
		if once != twice {
			t.Errorf("RoundPortion not idempotent at %v: %v != %v", g, once, twice)
		}
		if math.Mod(once, 5) != 0 {
			t.Errorf("RoundPortion(%v) = %v, not a multiple of 5", g, once)
		}
	}
}

func TestClampPortion(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-5, 10},
		{0, 10},
		{9.99, 10},
		{10, 10},
		{500, 500},
		{1000, 1000},
		{1000.01, 1000},
		{99999, 1000},
	}
	for _, c := range cases {
		if got := ClampPortion(c.in); got != c.want {
			t.Errorf("ClampPortion(%v) = %v, want %v", c.in, got, c.want)
		}
		got := ClampPortion(c.in)
		if got < 10 || got > 1000 {
			t.Errorf("ClampPortion(%v) = %v out of [10, 1000]", c.in, got)
		}
	}
}

func TestBuildPortionsMetadata(t *testing.T) {
	recipe := &models.Recipe{
		CaloriesPerPortion: 400,
		Items: []models.RecipeItem{
			{ProductID: 1, Grams: 100},
			{ProductID: 2, Grams: 37},
			{ProductID: 3, Grams: 2000}, // clamped then rounded
		},
	}

	got := BuildPortionsMetadata(recipe, 1.5)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	if got[0].ScaledGrams != 150 {
		t.Errorf("item 0 scaled = %v, want 150", got[0].ScaledGrams)
	}
	if got[1].ScaledGrams != 55 { // 55.5 -> clamp noop -> round to 55
		t.Errorf("item 1 scaled = %v, want 55", got[1].ScaledGrams)
	}
	if got[2].ScaledGrams != 1000 {
		t.Errorf("item 2 scaled = %v, want 1000 (clamped)", got[2].ScaledGrams)
	}
	if got[1].BaseGrams != 37 {
		t.Errorf("base grams must be preserved, got %v", got[1].BaseGrams)
	}

	if out := BuildPortionsMetadata(&models.Recipe{}, 2); len(out) != 0 {
		t.Errorf("recipe without ingredients must yield empty metadata, got %v", out)
	}
}
