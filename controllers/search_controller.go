package controllers

import (
	"furniture-shop/services"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{search: search}
}

// @Summary Search products
// @Description Typo-tolerant product search over the cached catalog
// @Tags Search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} models.Response
// @Router /search [get]
func (ctrl *SearchController) Search(c *gin.Context) {
	results, err := ctrl.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Search is temporarily unavailable"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Search results", "data": results})
}

// @Summary Refresh catalog
// @Description Force a catalog snapshot refresh, bypassing the freshness window
// @Tags Search
// @Produce json
// @Success 200 {object} models.Response
// @Router /search/refresh [post]
func (ctrl *SearchController) Refresh(c *gin.Context) {
	if err := ctrl.search.ForceRefresh(c.Request.Context()); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to refresh catalog"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Catalog refreshed"})
}

// @Summary Get categories
// @Description Get the category tree from the catalog snapshot
// @Tags Search
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *SearchController) GetCategories(c *gin.Context) {
	categories, err := ctrl.search.Categories(c.Request.Context())
	if err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Failed to load categories"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Categories retrieved", "data": categories})
}
