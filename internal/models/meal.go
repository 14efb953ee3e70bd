package models

// Meal represents one planned meal in an event's day/slot grid.
type Meal struct {
	// ID is the store-generated key of the meal record.
	ID string `json:"id,omitempty"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// RecipeLink optionally points at a recipe.
	RecipeLink string `json:"recipeLink,omitempty"`

	// ClaimedBy is the member who volunteered to make or bring the meal.
	ClaimedBy string `json:"claimedBy,omitempty"`

	// Slot is the meal slot within the day (breakfast, lunch, dinner, or a
	// template-specific slot like "cocktail").
	Slot string `json:"slot"`

	// Day is the day key the meal belongs to (day-1, friday, party-day...).
	Day string `json:"day"`

	// Time is an optional time-of-day hint.
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`

	// Cost uses the same permissive decoding as expense amounts.
	Cost Amount `json:"cost"`

	// Servings defaults to 1 at creation.
	Servings int `json:"servings"`

	// AssignedTo optionally names a member responsible for the meal.
	AssignedTo string `json:"assignedTo,omitempty"`

	AddedBy   string `json:"addedBy,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}
