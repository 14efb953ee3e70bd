// Package templates defines the built-in event templates: pre-configured
// settings, day layouts, meal slots and seed data applied when an event is
// created.
package templates

import "gatherly/internal/models"

// SeedMeal is a meal pre-populated into a newly created event.
type SeedMeal struct {
	Name        string
	Slot        string
	Description string
}

// SeedExpense is an expense placeholder pre-populated into a new event.
type SeedExpense struct {
	Name        string
	Category    string
	Description string
}

// Template describes one event template.
type Template struct {
	Key         string
	Name        string
	Description string
	Icon        string

	Settings models.EventSettings

	// Days and MealSlots define the planning grid the template starts
	// with.
	Days      []string
	MealSlots []string

	// ItineraryNotes seeds the shared notes field.
	ItineraryNotes string

	SeedMeals    []SeedMeal
	SeedExpenses []SeedExpense
}

var catalog = map[string]Template{
	"general": {
		Key:         "general",
		Name:        "General Event",
		Description: "A flexible template for any type of gathering",
		Icon:        "📅",
		Settings: models.EventSettings{
			Privacy:      models.PrivacyPrivate,
			AllowEditing: true,
			Features:     models.EventFeatures{Meals: true, Expenses: true, Itinerary: true},
		},
		Days:           []string{"day-1", "day-2"},
		MealSlots:      []string{"breakfast", "lunch", "dinner"},
		ItineraryNotes: "Add special notes, dietary restrictions, or important information here.",
	},
	"birthday": {
		Key:         "birthday",
		Name:        "Birthday Celebration",
		Description: "Perfect for birthday parties and celebrations",
		Icon:        "🎂",
		Settings: models.EventSettings{
			Privacy:      models.PrivacyInviteOnly,
			AllowEditing: true,
			Features:     models.EventFeatures{Meals: true, Expenses: true, Itinerary: true, Chat: true},
		},
		Days:           []string{"party-day"},
		MealSlots:      []string{"brunch", "dinner", "cake"},
		ItineraryNotes: "Birthday celebration! Please let us know about any dietary restrictions or allergies.",
		SeedMeals: []SeedMeal{
			{Name: "Birthday Cake", Slot: "cake", Description: "Special birthday cake for the celebration"},
		},
	},
	"vacation": {
		Key:         "vacation",
		Name:        "Vacation Trip",
		Description: "Multi-day trip planning with accommodation and activities",
		Icon:        "🏖️",
		Settings: models.EventSettings{
			Privacy:      models.PrivacyPrivate,
			AllowEditing: true,
			Features:     models.EventFeatures{Meals: true, Expenses: true, Itinerary: true, Chat: true},
		},
		Days:           []string{"day-1", "day-2", "day-3"},
		MealSlots:      []string{"breakfast", "lunch", "dinner"},
		ItineraryNotes: "Vacation planning! Don't forget to pack sunscreen and comfortable shoes.",
		SeedExpenses: []SeedExpense{
			{Name: "Accommodation", Category: "accommodation", Description: "Hotel or rental property"},
			{Name: "Transportation", Category: "transport", Description: "Flights, car rental, or gas"},
		},
	},
	"business": {
		Key:         "business",
		Name:        "Business Event",
		Description: "Corporate events, conferences, and team meetings",
		Icon:        "💼",
		Settings: models.EventSettings{
			Privacy:         models.PrivacyInviteOnly,
			RequireApproval: true,
			Features:        models.EventFeatures{Meals: true, Expenses: true, Itinerary: true},
		},
		Days:           []string{"day-1"},
		MealSlots:      []string{"breakfast", "lunch"},
		ItineraryNotes: "Professional event. Please arrive 15 minutes early and bring business cards.",
		SeedMeals: []SeedMeal{
			{Name: "Continental Breakfast", Slot: "breakfast", Description: "Light breakfast before the meeting"},
			{Name: "Working Lunch", Slot: "lunch", Description: "Catered lunch during the event"},
		},
	},
	"wedding": {
		Key:         "wedding",
		Name:        "Wedding Celebration",
		Description: "Wedding planning with ceremony and reception",
		Icon:        "💒",
		Settings: models.EventSettings{
			Privacy:         models.PrivacyInviteOnly,
			AllowEditing:    true,
			RequireApproval: true,
			Features:        models.EventFeatures{Meals: true, Expenses: true, Itinerary: true, Chat: true},
		},
		Days:           []string{"wedding-day"},
		MealSlots:      []string{"brunch", "cocktail", "dinner"},
		ItineraryNotes: "Wedding celebration! Please RSVP with meal preferences and any dietary restrictions.",
		SeedMeals: []SeedMeal{
			{Name: "Cocktail Hour", Slot: "cocktail", Description: "Drinks and appetizers before dinner"},
			{Name: "Wedding Dinner", Slot: "dinner", Description: "Main reception dinner"},
		},
	},
	"party": {
		Key:         "party",
		Name:        "Party/Social Event",
		Description: "Casual parties and social gatherings",
		Icon:        "🎉",
		Settings: models.EventSettings{
			Privacy:      models.PrivacyPrivate,
			AllowEditing: true,
			Features:     models.EventFeatures{Meals: true, Expenses: true, Chat: true},
		},
		Days:           []string{"party-day"},
		MealSlots:      []string{"appetizers", "main", "dessert"},
		ItineraryNotes: "Let's party! Bring your dancing shoes and appetite for fun.",
		SeedMeals: []SeedMeal{
			{Name: "Appetizers & Snacks", Slot: "appetizers", Description: "Light bites and finger foods"},
		},
	},
	"weekend": {
		Key:         "weekend",
		Name:        "Weekend Getaway",
		Description: "Short weekend trips and getaways",
		Icon:        "🌟",
		Settings: models.EventSettings{
			Privacy:      models.PrivacyPrivate,
			AllowEditing: true,
			Features:     models.EventFeatures{Meals: true, Expenses: true, Itinerary: true, Chat: true},
		},
		Days:           []string{"friday", "saturday", "sunday"},
		MealSlots:      []string{"breakfast", "lunch", "dinner"},
		ItineraryNotes: "Weekend getaway! Pack light and be ready for adventure.",
	},
}

// Get returns the template for key, falling back to the general template
// for unknown keys.
func Get(key string) Template {
	if t, ok := catalog[key]; ok {
		return t
	}
	return catalog["general"]
}

// Known reports whether key names a built-in template.
func Known(key string) bool {
	_, ok := catalog[key]
	return ok
}

// Keys returns the available template keys.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	return keys
}
