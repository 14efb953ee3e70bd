package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"gatherly/internal/format"
	"gatherly/internal/models"
	"gatherly/internal/service"
)

func (s *Server) mealService(r *http.Request) *service.MealService {
	return service.NewMealService(s.store, chi.URLParam(r, "eventID"))
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermRead) {
		return
	}

	meals, err := s.mealService(r).List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	var input models.Meal
	if !decodeJSON(w, r, &input) {
		return
	}

	meal, err := s.mealService(r).Create(r.Context(), input, UserID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	var input models.Meal
	if !decodeJSON(w, r, &input) {
		return
	}

	meal, err := s.mealService(r).Update(r.Context(), chi.URLParam(r, "mealID"), input, UserID(r.Context()))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	if !s.requireMember(w, r, chi.URLParam(r, "eventID"), models.PermWrite) {
		return
	}

	if err := s.mealService(r).Delete(r.Context(), chi.URLParam(r, "mealID"), UserID(r.Context())); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mealPlanResponse groups meals by day and slot for the planning view,
// with total cost and per-member claims alongside. ClaimersDisplay is a
// sentence naming everyone who claimed at least one meal.
type mealPlanResponse struct {
	Days             map[string]map[string][]models.Meal `json:"days"`
	TotalCost        float64                             `json:"totalCost"`
	TotalCostDisplay string                              `json:"totalCostDisplay"`
	Claims           map[string][]models.Meal            `json:"claims"`
	ClaimersDisplay  string                              `json:"claimersDisplay,omitempty"`
}

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !s.requireMember(w, r, eventID, models.PermRead) {
		return
	}

	meals, err := s.mealService(r).List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	members, err := s.events.Members(r.Context(), eventID)
	if err != nil {
		serviceError(w, err)
		return
	}

	claims := service.MealsByClaimer(meals)
	claimers := make([]string, 0, len(claims))
	for id := range claims {
		if m, ok := members[id]; ok && m.Name != "" {
			claimers = append(claimers, m.Name)
		}
	}
	sort.Strings(claimers)

	total := service.TotalMealCost(meals)
	writeJSON(w, http.StatusOK, mealPlanResponse{
		Days:             service.OrganizeByDay(meals),
		TotalCost:        total,
		TotalCostDisplay: format.Currency(total),
		Claims:           claims,
		ClaimersDisplay:  format.List(claimers),
	})
}
