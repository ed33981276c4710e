package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

type CommentHandler struct {
	threads *service.ThreadService
	ledger  *service.LedgerService
}

func NewCommentHandler(threads *service.ThreadService, ledger *service.LedgerService) *CommentHandler {
	return &CommentHandler{threads: threads, ledger: ledger}
}

// GetComments returns an idiom's comments newest first, each with its replies oldest first.
func (h *CommentHandler) GetComments(c *gin.Context) {
	idiomID, ok := parseIDParam(c, "idiomId", "idiom")
	if !ok {
		return
	}
	comments, err := h.threads.ListByIdiom(c.Request.Context(), idiomID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input models.CreateCommentRequest
	if !bindJSON(c, &input, "Invalid idiom ID") {
		return
	}
	comment, err := h.threads.CreateComment(c.Request.Context(), service.CreateCommentInput{
		UserID:  viewerID(c),
		IdiomID: input.IdiomID,
		Content: input.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "comment")
	if !ok {
		return
	}
	var input models.UpdateContentRequest
	if !bindJSON(c, &input, "Content is required") {
		return
	}
	comment, err := h.threads.UpdateComment(c.Request.Context(), service.EditInput{
		UserID:  viewerID(c),
		ID:      id,
		Content: input.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "comment")
	if !ok {
		return
	}
	if err := h.threads.DeleteComment(c.Request.Context(), viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// VoteComment toggles a like or dislike and returns the bare summary.
func (h *CommentHandler) VoteComment(c *gin.Context) {
	result, ok := react(c, h.ledger, models.TargetComment, "comment")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result.ReactionSummary)
}

// react parses {voteType} and the :id parameter and toggles the reaction. It
// writes the error response itself and reports whether the caller should continue.
func react(c *gin.Context, ledger *service.LedgerService, target models.TargetType, resource string) (*models.ReactionResult, bool) {
	id, ok := parseIDParam(c, "id", resource)
	if !ok {
		return nil, false
	}
	var input struct {
		VoteType string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid vote type")
		return nil, false
	}
	result, err := ledger.React(c.Request.Context(), service.ReactInput{
		Target:   target,
		TargetID: id,
		UserID:   viewerID(c),
		Kind:     input.VoteType,
	})
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return result, true
}
