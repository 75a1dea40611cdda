package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindfulplate/backend/internal/domain"
	"github.com/mindfulplate/backend/internal/usecase"
)

const (
	greetingReply = "Hi there! Tell me what you ate and I'll log it for you."
	questionReply = "I'm your food logging assistant. Describe a meal, like '2 eggs and toast', and I'll track the nutrition for you."
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	logs   *usecase.LogService
	intent domain.IntentClassifier
}

// NewHandler creates a new HTTP handler
func NewHandler(logs *usecase.LogService, intent domain.IntentClassifier) *Handler {
	return &Handler{logs: logs, intent: intent}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mindfulplate-backend",
		"version": "1.0.0",
	})
}

// logRequest is the body of POST /api/v1/log
type logRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Text     string `json:"text" binding:"required"`
	MealType string `json:"mealType"`

	// AsIngredients marks the text as the answer to an ingredient prompt,
	// so it is decomposed as a mixed dish instead of matched as whole
	// foods.
	AsIngredients bool `json:"asIngredients"`
}

// LogMeal parses and logs one free-text meal description. Greetings and
// questions get a canned reply instead of going through food resolution.
func (h *Handler) LogMeal(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "userId and text are required",
		})
		return
	}

	if req.AsIngredients {
		result, err := h.logs.ProcessIngredients(c.Request.Context(), req.UserID, req.Text, req.MealType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process meal"})
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	switch h.intent.Classify(req.Text) {
	case domain.IntentGreeting:
		c.JSON(http.StatusOK, gin.H{"intent": "greeting", "message": greetingReply})
		return
	case domain.IntentQuestion:
		c.JSON(http.StatusOK, gin.H{"intent": "question", "message": questionReply})
		return
	}

	result, err := h.logs.Process(c.Request.Context(), req.UserID, req.Text, req.MealType)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId and text are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process meal"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// TodayLogs returns the user's entries for the current day.
func (h *Handler) TodayLogs(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	summary, err := h.logs.TodayLogs(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Recommendations returns advice derived from the user's recent history.
func (h *Handler) Recommendations(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	recs, err := h.logs.Recommendations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// Stats returns aggregate nutrition statistics over the pattern window.
func (h *Handler) Stats(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	stats, err := h.logs.Stats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	if stats == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Not enough data yet. Log a few meals first!"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
