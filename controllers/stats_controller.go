package controllers

import (
	"net/http"
	"time"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Svc   *services.StatsService
	Users *services.UserService
}

func NewStatsController(svc *services.StatsService, users *services.UserService) *StatsController {
	return &StatsController{Svc: svc, Users: users}
}

func dateQuery(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Now(), true
	}
	parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return time.Time{}, false
	}
	return parsed, true
}

func (sc *StatsController) Daily(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	out, err := sc.Svc.DailyStatistics(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (sc *StatsController) Weekly(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	weekStart, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}

	out, err := sc.Svc.WeeklyStatistics(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (sc *StatsController) CompareWeeks(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	weekStart, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}

	out, err := sc.Svc.CompareWithPreviousWeek(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// EmailReport mails the weekly summary to the user's registered address.
func (sc *StatsController) EmailReport(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	weekStart, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}

	user, err := sc.Users.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	weekly, err := sc.Svc.WeeklyStatistics(c.Request.Context(), userID, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := utils.SendWeeklyReportEmail(user.Email, weekly.WeekStart, services.RenderWeeklyReport(weekly)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report sent"})
}
