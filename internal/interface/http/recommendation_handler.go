package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moodmate/internal/domain/mood"
)

type feedbackRequest struct {
	Rating  int   `json:"rating"`
	Helpful *bool `json:"helpful"`
}

// Recommendations returns the static bundle for ?mood=.
func (h *Handler) Recommendations(c *gin.Context) {
	m, err := mood.Parse(c.Query("mood"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", err.Error(), err))
		return
	}
	c.JSON(http.StatusOK, h.recommendationSvc.ForMood(m))
}

// History lists the caller's recorded AI recommendations.
func (h *Handler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	entries, err := h.recommendationSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// Feedback rates a recorded recommendation.
func (h *Handler) Feedback(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req feedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recommendationSvc.SubmitFeedback(c.Request.Context(), userID, c.Param("id"), req.Rating, req.Helpful)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// AnalyzeImprovements runs the LLM analysis over stored history.
func (h *Handler) AnalyzeImprovements(c *gin.Context) {
	items, err := h.improvementSvc.Analyze(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// Improvements lists the newest stored suggestions.
func (h *Handler) Improvements(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	items, err := h.improvementSvc.Latest(c.Request.Context(), limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
