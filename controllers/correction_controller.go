package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type CorrectionController struct {
	Svc   *services.CorrectionService
	Plans *services.MealPlanService
}

func NewCorrectionController(svc *services.CorrectionService, plans *services.MealPlanService) *CorrectionController {
	return &CorrectionController{Svc: svc, Plans: plans}
}

func planIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return 0, false
	}
	return uint(id), true
}

// Check evaluates today's signals against the plan and returns the newly
// created pending recommendations.
func (cc *CorrectionController) Check(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	recs, err := cc.Svc.CheckAndSuggestCorrections(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (cc *CorrectionController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	recs, err := cc.Svc.ListRecommendations(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

type applyInput struct {
	RecommendationID uint `json:"recommendation_id" binding:"required"`
}

func (cc *CorrectionController) Apply(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	var input applyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := cc.Svc.ApplyCorrection(c.Request.Context(), userID, planID, input.RecommendationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		case errors.Is(err, services.ErrRecommendationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recommendation not found"})
		case errors.Is(err, services.ErrPlanAlreadyCorrected):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrRecommendationNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (cc *CorrectionController) Reject(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	recID, err := strconv.ParseUint(c.Param("recId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
		return
	}

	if err := cc.Svc.RejectRecommendation(c.Request.Context(), userID, planID, uint(recID)); err != nil {
		switch {
		case errors.Is(err, services.ErrRecommendationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recommendation not found"})
		case errors.Is(err, services.ErrRecommendationNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recommendation rejected"})
}

type menuChangesInput struct {
	Calories float64 `json:"calories" binding:"required"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// MenuChanges returns advisory text about which recipes no longer fit the
// given targets. Nothing is mutated.
func (cc *CorrectionController) MenuChanges(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}

	var input menuChangesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := cc.Plans.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summary, err := cc.Svc.SuggestMenuChanges(c.Request.Context(), plan, services.Macros{
		Calories: input.Calories,
		Protein:  input.Protein,
		Fat:      input.Fat,
		Carbs:    input.Carbs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
