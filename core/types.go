// Package core provides the foundational types and errors shared by the
// BeijShop client packages.
//
// This package contains:
//   - Domain records: User, Product, ProductPreview, ViewEvent
//   - Wire shapes: LoginResponse, SavedItemsResponse
//   - The error taxonomy: APIError plus sentinel errors
package core

import "time"

// User is the public account record as returned by the backend.
// It is replaced wholesale on profile updates, never partially mutated.
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// Product is the full catalog record for a single product.
type Product struct {
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	Category           []string `json:"category"`
	DiscountedPrice    float64  `json:"discounted_price"`
	ActualPrice        float64  `json:"actual_price"`
	DiscountPercentage string   `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	RatingCount        int      `json:"rating_count"`
	AboutProduct       string   `json:"about_product"`
	ImgLink            string   `json:"img_link"`
	ProductLink        string   `json:"product_link"`
}

// ProductPreview is the reduced-field representation used in list views.
type ProductPreview struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	DiscountedPrice float64 `json:"discounted_price"`
	Rating          float64 `json:"rating"`
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// SavedItemsResponse carries the authoritative saved-item id list. The
// backend returns the full updated list on every save/unsave call.
type SavedItemsResponse struct {
	SavedItemIDs []string `json:"saved_item_ids"`
}

// ViewEvent is one entry in a user's view history.
type ViewEvent struct {
	ProductID string `json:"product_id"`
	ViewedAt  string `json:"viewed_at"`
}

// LivePrice is the result of a live-price lookup against the external
// price endpoint. The endpoint is a black box returning {success, price}
// or {success: false, message}.
type LivePrice struct {
	Success bool   `json:"success"`
	Price   string `json:"price"`
	Message string `json:"message,omitempty"`
}

// ProfileUpdate holds the optional fields of a profile update request.
// Nil fields are omitted from the request body and left unchanged.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Credentials is the storable subset of a session: the bearer token and
// the user record it belongs to. Saved item ids are deliberately not part
// of it; they are refetched from the backend on hydration.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PriceQuote is one observation made by the price watcher.
type PriceQuote struct {
	ProductID  string    `json:"product_id"`
	Price      string    `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}
