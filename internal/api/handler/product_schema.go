package handler

import "github.com/mobi/cms-console/internal/core/domain"

// productRequest is the product form. Limits match the backend's.
type productRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Description string  `json:"description" validate:"max=1000"`
	CategoryID  *int64  `json:"categoryId"  validate:"omitempty,gt=0"`
}

func (r productRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		CategoryID:  r.CategoryID,
	}
}

// productFormResponse backs the new and edit pages: the product being edited
// (absent on /products/new) and the categories it can be filed under.
type productFormResponse struct {
	Product    *domain.Product   `json:"product,omitempty"`
	Categories []domain.Category `json:"categories"`
}

// errorResponse is the envelope of every 4xx/5xx answer.
type errorResponse struct {
	Error string `json:"error"`
}
