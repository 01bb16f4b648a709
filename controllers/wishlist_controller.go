package controllers

import (
	"furniture-shop/models"
	"furniture-shop/repositories"

	"github.com/gin-gonic/gin"
)

type WishlistController struct {
	wishlist *repositories.WishlistRepository
}

func NewWishlistController(wishlist *repositories.WishlistRepository) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

// @Summary Get wishlist
// @Description Get the authenticated user's wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /wishlist [get]
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	items, err := ctrl.wishlist.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get wishlist"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Wishlist retrieved", "data": items})
}

// @Summary Add wishlist item
// @Description Add a product variant to the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.AddWishlistItemRequest true "Item"
// @Success 201 {object} models.Response
// @Router /wishlist [post]
func (ctrl *WishlistController) AddItem(c *gin.Context) {
	var req models.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	item := models.WishlistItem{
		UserID:    c.GetString("user_id"),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
	}

	if err := ctrl.wishlist.Add(c.Request.Context(), &item); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to add wishlist item"})
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Wishlist item added", "data": item})
}

// @Summary Remove wishlist item
// @Description Remove a product variant from the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Param variantId path string true "Variant id"
// @Success 200 {object} models.Response
// @Router /wishlist/{variantId} [delete]
func (ctrl *WishlistController) RemoveItem(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := ctrl.wishlist.Remove(c.Request.Context(), userID, c.Param("variantId")); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove wishlist item"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Wishlist item removed"})
}
