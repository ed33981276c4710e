package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

type IdiomHandler struct {
	idioms *service.IdiomService
	ledger *service.LedgerService
}

func NewIdiomHandler(idioms *service.IdiomService, ledger *service.LedgerService) *IdiomHandler {
	return &IdiomHandler{idioms: idioms, ledger: ledger}
}

// GetIdioms lists idioms newest first, optionally filtered by category.
func (h *IdiomHandler) GetIdioms(c *gin.Context) {
	filter := models.IdiomFilter{
		Category: c.Query("category"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 0),
	}
	idioms, total, err := h.idioms.List(c.Request.Context(), filter, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    idioms,
		"total":   total,
	})
}

func (h *IdiomHandler) GetIdiom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "idiom")
	if !ok {
		return
	}
	idiom, err := h.idioms.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idiom})
}

func (h *IdiomHandler) GetMyIdioms(c *gin.Context) {
	idioms, err := h.idioms.ListMine(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idioms})
}

func (h *IdiomHandler) GetCategories(c *gin.Context) {
	categories, err := h.idioms.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

func (h *IdiomHandler) CreateIdiom(c *gin.Context) {
	var input models.CreateIdiomRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	idiom, err := h.idioms.Create(c.Request.Context(), viewerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Idiom created successfully", "data": idiom})
}

func (h *IdiomHandler) UpdateIdiom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "idiom")
	if !ok {
		return
	}
	var input models.UpdateIdiomRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	idiom, err := h.idioms.Update(c.Request.Context(), viewerID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Idiom updated successfully", "data": idiom})
}

func (h *IdiomHandler) DeleteIdiom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "idiom")
	if !ok {
		return
	}
	if err := h.idioms.Delete(c.Request.Context(), viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Idiom deleted successfully"})
}

// VoteIdiom casts, toggles off or switches the caller's vote.
func (h *IdiomHandler) VoteIdiom(c *gin.Context) {
	var input struct {
		VoteType string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid vote type")
		return
	}
	h.castVote(c, input.VoteType)
}

// LikeIdiom and DislikeIdiom are the older single-purpose vote routes.
func (h *IdiomHandler) LikeIdiom(c *gin.Context) { h.castVote(c, string(models.VoteUp)) }

func (h *IdiomHandler) DislikeIdiom(c *gin.Context) { h.castVote(c, string(models.VoteDown)) }

func (h *IdiomHandler) castVote(c *gin.Context, voteType string) {
	id, ok := parseIDParam(c, "id", "idiom")
	if !ok {
		return
	}
	result, err := h.ledger.CastVote(c.Request.Context(), service.CastVoteInput{
		IdiomID:  id,
		UserID:   viewerID(c),
		VoteType: voteType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Vote recorded successfully",
		"data":    result,
	})
}
