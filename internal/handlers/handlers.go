package handlers

import (
	"context"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

// IdiomGenerator suggests metadata for an idiom title.
type IdiomGenerator interface {
	GenerateIdiom(ctx context.Context, title string) (*models.GeneratedIdiom, error)
}

// Services are the dependencies the handlers are built from.
type Services struct {
	Ledger     *service.LedgerService
	Threads    *service.ThreadService
	Favourites *service.FavouriteService
	Idioms     *service.IdiomService
	Users      *service.UserService
	Generator  IdiomGenerator
	Tokens     TokenIssuer
}

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Idiom   *IdiomHandler
	Comment *CommentHandler
	Reply   *ReplyHandler
	User    *UserHandler
	AI      *AIHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(s Services) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(s.Users, s.Tokens),
		Idiom:   NewIdiomHandler(s.Idioms, s.Ledger),
		Comment: NewCommentHandler(s.Threads, s.Ledger),
		Reply:   NewReplyHandler(s.Threads, s.Ledger),
		User:    NewUserHandler(s.Users, s.Favourites),
		AI:      NewAIHandler(s.Generator),
	}
}
