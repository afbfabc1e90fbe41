package domain

import "time"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#0A84FF"

// DefaultCategoryNames are seeded for a new owner.
var DefaultCategoryNames = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Utilities",
	"Housing",
	"Income",
	"Other",
}

// Category labels transactions. Names are unique per owner, compared
// case-insensitively.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory builds a category, falling back to the default color.
func NewCategory(id, ownerID, name, color string, now time.Time) *Category {
	if color == "" {
		color = DefaultCategoryColor
	}

	return &Category{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
