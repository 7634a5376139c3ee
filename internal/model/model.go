package model

import "time"

// ListState is the lifecycle state of a shopping list.
type ListState string

const (
	ListActive    ListState = "active"
	ListCompleted ListState = "completed"
)

// Category is a read-only catalog category (seeded by migration).
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog entry shared across all lists. Identity is keyed by
// NormalizedName, never by the display name.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"-"`
	CategoryID     *int64    `json:"category_id"`
	UsageCount     int       `json:"usage_count"`
	UserSuggested  bool      `json:"user_suggested"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListItem is one entry on a shopping list. Exactly one of ProductID and
// CustomName is set.
type ListItem struct {
	ID         int64     `json:"id"`
	ListID     int64     `json:"list_id"`
	ProductID  *int64    `json:"product_id"`
	CustomName *string   `json:"custom_name"`
	Quantity   int       `json:"quantity"`
	Checked    bool      `json:"is_checked"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShoppingList struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	State          ListState  `json:"state"`
	CompletionDate *time.Time `json:"completion_date"`
	StoreName      *string    `json:"store_name"`
	OwnerID        *string    `json:"owner_id"`
	CreatedAt      time.Time  `json:"created_at"`
}
