package controllers

import (
	"errors"
	"strings"

	"furniture-shop/middleware"
	"furniture-shop/models"
	"furniture-shop/repositories"
	"furniture-shop/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	registry *services.CartRegistry
	promos   *repositories.PromoRepository
}

func NewCartController(registry *services.CartRegistry, promos *repositories.PromoRepository) *CartController {
	return &CartController{registry: registry, promos: promos}
}

func (ctrl *CartController) engine(c *gin.Context) *services.CartEngine {
	sessionID := middleware.CartSessionID(c)
	token := ""
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}
	return ctrl.registry.Engine(c.Request.Context(), sessionID, token)
}

// @Summary Get cart
// @Description Get the current cart for this session
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	engine := ctrl.engine(c)
	c.JSON(200, gin.H{"success": true, "message": "Cart retrieved", "data": engine.View()})
}

// @Summary Add cart item
// @Description Add an item to the cart; same variant and color merges quantities
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	engine := ctrl.engine(c)
	item := models.CartItem{
		VariantID:       req.VariantID,
		Name:            req.Name,
		Price:           req.Price,
		Image:           req.Image,
		Size:            req.Size,
		Color:           req.Color,
		AvailableColors: req.AvailableColors,
		Stock:           req.Stock,
	}

	if err := engine.AddItem(c.Request.Context(), item, quantity); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to add item to cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Item added to cart", "data": engine.View()})
}

// @Summary Update item quantity
// @Description Set a cart line's quantity; zero or less removes the line
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item id"
// @Param body body models.UpdateQuantityRequest true "Quantity"
// @Success 200 {object} models.Response
// @Router /cart/items/{id} [patch]
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	engine := ctrl.engine(c)
	if err := engine.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to update item"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart updated", "data": engine.View()})
}

// @Summary Update item color
// @Description Change a cart line's displayed color
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item id"
// @Param body body models.UpdateColorRequest true "Color"
// @Success 200 {object} models.Response
// @Router /cart/items/{id}/color [patch]
func (ctrl *CartController) UpdateColor(c *gin.Context) {
	var req models.UpdateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	engine := ctrl.engine(c)
	if err := engine.UpdateItemColor(c.Request.Context(), c.Param("id"), req.Color); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update item"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart updated", "data": engine.View()})
}

// @Summary Remove cart item
// @Description Remove a line from the cart; unknown ids are a no-op
// @Tags Cart
// @Produce json
// @Param id path string true "Cart item id"
// @Success 200 {object} models.Response
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	engine := ctrl.engine(c)
	if err := engine.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to remove item"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Item removed", "data": engine.View()})
}

// @Summary Clear cart
// @Description Remove every line from the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	engine := ctrl.engine(c)
	if err := engine.ClearCart(c.Request.Context()); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to clear cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart cleared", "data": engine.View()})
}

// @Summary Set shipping method
// @Description Select one of the offered shipping methods
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.SetShippingRequest true "Shipping method"
// @Success 200 {object} models.Response
// @Router /cart/shipping [put]
func (ctrl *CartController) SetShipping(c *gin.Context) {
	var req models.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	option := models.ShippingOptionByMethod(req.Method)
	if option == nil {
		c.JSON(400, gin.H{"success": false, "message": "Unknown shipping method"})
		return
	}

	engine := ctrl.engine(c)
	engine.SetShippingInfo(c.Request.Context(), *option)
	c.JSON(200, gin.H{"success": true, "message": "Shipping updated", "data": engine.View()})
}

// @Summary Apply coupon
// @Description Validate a coupon code and apply its discount to the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body models.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} models.Response
// @Router /cart/coupon [post]
func (ctrl *CartController) ApplyCoupon(c *gin.Context) {
	var req models.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	promo, err := ctrl.promos.GetByCode(c.Request.Context(), req.Code)
	if errors.Is(err, repositories.ErrPromoNotFound) {
		c.JSON(404, gin.H{"success": false, "message": "Invalid coupon code"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to validate coupon"})
		return
	}

	engine := ctrl.engine(c)
	view := engine.View()
	discount := promo.DiscountFor(view.TotalPrice)
	engine.ApplyCoupon(c.Request.Context(), promo.Code, discount)

	c.JSON(200, gin.H{"success": true, "message": "Coupon applied", "data": engine.View()})
}

// @Summary Remove coupon
// @Description Remove the applied coupon and its discount
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart/coupon [delete]
func (ctrl *CartController) RemoveCoupon(c *gin.Context) {
	engine := ctrl.engine(c)
	engine.ClearCoupon(c.Request.Context())
	c.JSON(200, gin.H{"success": true, "message": "Coupon removed", "data": engine.View()})
}

// @Summary Sync cart
// @Description Re-derive auth mode; logging in merges the guest cart into the server cart
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart/sync [post]
func (ctrl *CartController) SyncCart(c *gin.Context) {
	engine := ctrl.engine(c)
	engine.CheckAuthStatus(c.Request.Context())
	c.JSON(200, gin.H{"success": true, "message": "Cart synced", "data": engine.View()})
}
