package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Svc *services.CatalogService
}

func NewCatalogController(svc *services.CatalogService) *CatalogController {
	return &CatalogController{Svc: svc}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ListRecipes optionally filters by ?restrictions=<bitmask>.
func (cc *CatalogController) ListRecipes(c *gin.Context) {
	var restrictions int64
	if v := c.Query("restrictions"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restrictions mask"})
			return
		}
		restrictions = parsed
	}

	recipes, err := cc.Svc.ListRecipes(c.Request.Context(), restrictions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (cc *CatalogController) GetRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	recipe, err := cc.Svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (cc *CatalogController) ListProducts(c *gin.Context) {
	products, err := cc.Svc.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (cc *CatalogController) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	product, err := cc.Svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (cc *CatalogController) ListTemplates(c *gin.Context) {
	tpls, err := cc.Svc.ListTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tpls)
}

func (cc *CatalogController) GetTemplate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	tpl, err := cc.Svc.GetTemplate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tpl)
}
