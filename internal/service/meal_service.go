package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/store"
)

var ErrMealNotFound = errors.New("meal not found")

// MealService manages one event's meal plan.
type MealService struct {
	store   store.Store
	eventID string
}

// NewMealService creates a meal service for the given event.
func NewMealService(s store.Store, eventID string) *MealService {
	return &MealService{store: s, eventID: eventID}
}

func (s *MealService) mealsPath() string {
	return "events/" + s.eventID + "/meals"
}

func (s *MealService) mealPath(mealID string) string {
	return s.mealsPath() + "/" + mealID
}

// Create stores a new meal and returns it with its generated id.
func (s *MealService) Create(ctx context.Context, input models.Meal, userID string) (*models.Meal, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	now := time.Now().Unix()
	meal := input
	meal.ID = ""
	if meal.Servings == 0 {
		meal.Servings = 1
	}
	meal.AddedBy = userID
	meal.CreatedAt = now
	meal.UpdatedAt = now

	id, err := s.store.Push(ctx, s.mealsPath(), meal)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	meal.ID = id

	slog.Info("Meal created", "event_id", s.eventID, "meal_id", id, "day", meal.Day, "slot", meal.Slot)
	return &meal, nil
}

// Update replaces the stored meal with the input merged over the existing
// record, preserving provenance fields.
func (s *MealService) Update(ctx context.Context, mealID string, input models.Meal, userID string) (*models.Meal, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	existing := models.Meal{}
	if err := s.store.Get(ctx, s.mealPath(mealID), &existing); err != nil {
		return nil, ErrMealNotFound
	}

	updated := input
	updated.ID = ""
	updated.AddedBy = existing.AddedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().Unix()
	if updated.Servings == 0 {
		updated.Servings = existing.Servings
	}

	if err := s.store.Set(ctx, s.mealPath(mealID), updated); err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}
	updated.ID = mealID

	slog.Info("Meal updated", "event_id", s.eventID, "meal_id", mealID)
	return &updated, nil
}

// Delete removes a meal.
func (s *MealService) Delete(ctx context.Context, mealID string, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.store.Delete(ctx, s.mealPath(mealID)); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	slog.Info("Meal deleted", "event_id", s.eventID, "meal_id", mealID)
	return nil
}

// Get retrieves a single meal.
func (s *MealService) Get(ctx context.Context, mealID string) (*models.Meal, error) {
	meal := &models.Meal{}
	if err := s.store.Get(ctx, s.mealPath(mealID), meal); err != nil {
		return nil, ErrMealNotFound
	}
	meal.ID = mealID
	return meal, nil
}

// List returns all meals of the event, oldest first.
func (s *MealService) List(ctx context.Context) ([]models.Meal, error) {
	children, err := s.store.Children(ctx, s.mealsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	meals := make([]models.Meal, 0, len(children))
	for id, raw := range children {
		meal := models.Meal{}
		if err := json.Unmarshal(raw, &meal); err != nil {
			return nil, fmt.Errorf("failed to decode meal %s: %w", id, err)
		}
		meal.ID = id
		meals = append(meals, meal)
	}

	sort.Slice(meals, func(i, j int) bool {
		if meals[i].CreatedAt != meals[j].CreatedAt {
			return meals[i].CreatedAt < meals[j].CreatedAt
		}
		return meals[i].ID < meals[j].ID
	})
	return meals, nil
}

// Subscribe invokes onChange with the full meal list after every change.
func (s *MealService) Subscribe(onChange func([]models.Meal)) store.CancelFunc {
	return s.store.Subscribe(s.mealsPath(), func() {
		meals, err := s.List(context.Background())
		if err != nil {
			slog.Error("Failed to reload meals", "event_id", s.eventID, "error", err)
			return
		}
		onChange(meals)
	})
}

// OrganizeByDay buckets meals into a day -> slot -> meals grid for display.
func OrganizeByDay(meals []models.Meal) map[string]map[string][]models.Meal {
	organized := make(map[string]map[string][]models.Meal)
	for _, meal := range meals {
		slots, ok := organized[meal.Day]
		if !ok {
			slots = make(map[string][]models.Meal)
			organized[meal.Day] = slots
		}
		slots[meal.Slot] = append(slots[meal.Slot], meal)
	}
	return organized
}

// TotalMealCost sums the cost of all meals, missing costs counting as 0.
func TotalMealCost(meals []models.Meal) float64 {
	var total float64
	for _, meal := range meals {
		total += float64(meal.Cost)
	}
	return total
}

// MealsByClaimer groups claimed meals by who claimed them. Unclaimed meals
// are excluded.
func MealsByClaimer(meals []models.Meal) map[string][]models.Meal {
	byClaimer := make(map[string][]models.Meal)
	for _, meal := range meals {
		if meal.ClaimedBy != "" {
			byClaimer[meal.ClaimedBy] = append(byClaimer[meal.ClaimedBy], meal)
		}
	}
	return byClaimer
}
