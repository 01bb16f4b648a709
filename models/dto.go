package models

type AddCartItemRequest struct {
	VariantID       string   `json:"variant_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Price           float64  `json:"price"`
	Quantity        *int     `json:"quantity"`
	Image           string   `json:"image"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
	AvailableColors []string `json:"available_colors"`
	Stock           int      `json:"stock"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateColorRequest struct {
	Color string `json:"color" binding:"required"`
}

type SetShippingRequest struct {
	Method string `json:"method" binding:"required"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type AddWishlistItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	VariantID string  `json:"variant_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MetaData struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    MetaData    `json:"meta"`
}
