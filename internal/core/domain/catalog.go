package domain

// Category may reference its parent category.
type Category struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	ParentCategory *Category `json:"parentCategory,omitempty"`
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

// ProductInput is the create/update payload accepted by the backend.
type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
}

// OrderItem carries no reference back to its Order so the JSON stays acyclic.
type OrderItem struct {
	ID              int64   `json:"id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
	Product         Product `json:"product"`
}

// Order timestamps are kept as the backend's ISO local date-time strings.
type Order struct {
	ID          int64        `json:"id"`
	User        *UserProfile `json:"user,omitempty"`
	TotalAmount float64      `json:"totalAmount"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
	OrderItems  []OrderItem  `json:"orderItems"`
}

type CartItem struct {
	ID        int64        `json:"id"`
	User      *UserProfile `json:"user,omitempty"`
	Product   Product      `json:"product"`
	Quantity  int          `json:"quantity"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}
