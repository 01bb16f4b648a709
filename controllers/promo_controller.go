package controllers

import (
	"furniture-shop/repositories"

	"github.com/gin-gonic/gin"
)

type PromoController struct {
	promos *repositories.PromoRepository
}

func NewPromoController(promos *repositories.PromoRepository) *PromoController {
	return &PromoController{promos: promos}
}

// @Summary Get all promos
// @Description Get list of active promo codes
// @Tags Promos
// @Produce json
// @Success 200 {object} models.Response
// @Router /promos [get]
func (ctrl *PromoController) GetAllPromos(c *gin.Context) {
	promos, err := ctrl.promos.GetActive(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get promos"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Promos retrieved", "data": promos})
}
