package service

import (
	"context"
	"testing"

	"gatherly/internal/models"
)

func TestMealService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, s, "alice@example.com", "Alice")
	event := createTestEvent(t, s, owner, "general")
	meals := NewMealService(s, event.ID)

	t.Run("Create applies defaults", func(t *testing.T) {
		meal, err := meals.Create(ctx, models.Meal{Name: "Chili", Slot: "dinner", Day: "day-1"}, owner.ID)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if meal.ID == "" {
			t.Error("meal should receive a generated id")
		}
		if meal.Servings != 1 {
			t.Errorf("servings = %d, want default 1", meal.Servings)
		}
		if meal.AddedBy != owner.ID || meal.CreatedAt == 0 {
			t.Errorf("provenance not set: %+v", meal)
		}
	})

	t.Run("Update preserves provenance and unset servings", func(t *testing.T) {
		meal, err := meals.Create(ctx, models.Meal{Name: "Pancakes", Slot: "breakfast", Day: "day-2", Servings: 6}, owner.ID)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		updated, err := meals.Update(ctx, meal.ID, models.Meal{Name: "Blueberry Pancakes", Slot: "breakfast", Day: "day-2", ClaimedBy: owner.ID}, owner.ID)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Blueberry Pancakes" || updated.ClaimedBy != owner.ID {
			t.Errorf("update not applied: %+v", updated)
		}
		if updated.Servings != 6 {
			t.Errorf("servings = %d, want preserved 6", updated.Servings)
		}
		if updated.AddedBy != owner.ID || updated.CreatedAt != meal.CreatedAt {
			t.Errorf("provenance changed: %+v", updated)
		}
	})

	t.Run("Update of a missing meal fails", func(t *testing.T) {
		if _, err := meals.Update(ctx, "missing", models.Meal{Name: "Ghost"}, owner.ID); err != ErrMealNotFound {
			t.Errorf("expected ErrMealNotFound, got %v", err)
		}
	})

	t.Run("Delete removes the meal", func(t *testing.T) {
		meal, err := meals.Create(ctx, models.Meal{Name: "Soup", Slot: "lunch", Day: "day-1"}, owner.ID)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := meals.Delete(ctx, meal.ID, owner.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := meals.Get(ctx, meal.ID); err != ErrMealNotFound {
			t.Errorf("expected ErrMealNotFound, got %v", err)
		}
	})
}

func TestMealHelpers(t *testing.T) {
	meals := []models.Meal{
		{ID: "1", Name: "Eggs", Day: "day-1", Slot: "breakfast", Cost: 12, ClaimedBy: "alice"},
		{ID: "2", Name: "Tacos", Day: "day-1", Slot: "dinner", Cost: 40, ClaimedBy: "bob"},
		{ID: "3", Name: "Oatmeal", Day: "day-2", Slot: "breakfast", Cost: 8},
	}

	t.Run("OrganizeByDay groups by day then slot", func(t *testing.T) {
		byDay := OrganizeByDay(meals)
		if len(byDay) != 2 {
			t.Fatalf("expected 2 days, got %d", len(byDay))
		}
		if got := byDay["day-1"]["breakfast"]; len(got) != 1 || got[0].Name != "Eggs" {
			t.Errorf("day-1 breakfast = %v", got)
		}
		if got := byDay["day-1"]["dinner"]; len(got) != 1 || got[0].Name != "Tacos" {
			t.Errorf("day-1 dinner = %v", got)
		}
	})

	t.Run("TotalMealCost sums all costs", func(t *testing.T) {
		if total := TotalMealCost(meals); total != 60 {
			t.Errorf("total = %v, want 60", total)
		}
	})

	t.Run("MealsByClaimer skips unclaimed meals", func(t *testing.T) {
		byClaimer := MealsByClaimer(meals)
		if len(byClaimer) != 2 {
			t.Fatalf("expected 2 claimers, got %d", len(byClaimer))
		}
		if got := byClaimer["alice"]; len(got) != 1 || got[0].Name != "Eggs" {
			t.Errorf("alice's meals = %v", got)
		}
	})
}
