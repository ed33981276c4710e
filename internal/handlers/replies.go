package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

type ReplyHandler struct {
	threads *service.ThreadService
	ledger  *service.LedgerService
}

func NewReplyHandler(threads *service.ThreadService, ledger *service.LedgerService) *ReplyHandler {
	return &ReplyHandler{threads: threads, ledger: ledger}
}

func (h *ReplyHandler) CreateReply(c *gin.Context) {
	var input models.CreateReplyRequest
	if !bindJSON(c, &input, "Invalid comment ID") {
		return
	}
	reply, err := h.threads.CreateReply(c.Request.Context(), service.CreateReplyInput{
		UserID:    viewerID(c),
		CommentID: input.CommentID,
		Content:   input.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reply")
	if !ok {
		return
	}
	var input models.UpdateContentRequest
	if !bindJSON(c, &input, "Content is required") {
		return
	}
	reply, err := h.threads.UpdateReply(c.Request.Context(), service.EditInput{
		UserID:  viewerID(c),
		ID:      id,
		Content: input.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reply")
	if !ok {
		return
	}
	if err := h.threads.DeleteReply(c.Request.Context(), viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted successfully"})
}

func (h *ReplyHandler) VoteReply(c *gin.Context) {
	result, ok := react(c, h.ledger, models.TargetReply, "reply")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result.ReactionSummary})
}
