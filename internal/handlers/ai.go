package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	generator IdiomGenerator
}

func NewAIHandler(generator IdiomGenerator) *AIHandler {
	return &AIHandler{generator: generator}
}

// GenerateIdiom suggests category, meaning, examples and tags for a title.
func (h *AIHandler) GenerateIdiom(c *gin.Context) {
	var input struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Title is required")
		return
	}
	generated, err := h.generator.GenerateIdiom(c.Request.Context(), input.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": generated})
}
