package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
)

const maxContentLen = 10000

// ThreadService owns comments and replies under an idiom.
type ThreadService struct {
	comments  repository.CommentRepository
	replies   repository.ReplyRepository
	reactions repository.ReactionRepository
	idioms    repository.IdiomRepository
}

type CreateCommentInput struct {
	UserID  int
	IdiomID int
	Content string
}

type CreateReplyInput struct {
	UserID    int
	CommentID int
	Content   string
}

// EditInput addresses a comment or reply by ID on behalf of UserID.
type EditInput struct {
	UserID  int
	ID      int
	Content string
}

func NewThreadService(
	comments repository.CommentRepository,
	replies repository.ReplyRepository,
	reactions repository.ReactionRepository,
	idioms repository.IdiomRepository,
) *ThreadService {
	return &ThreadService{
		comments:  comments,
		replies:   replies,
		reactions: reactions,
		idioms:    idioms,
	}
}

// normalizeContent trims surrounding space and keeps the body exactly as typed.
// Comment text is plain text; clients escape it when rendering.
func normalizeContent(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(text) > maxContentLen {
		return "", models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", maxContentLen))
	}
	return text, nil
}

func (s *ThreadService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.IdiomID, "idiom"); err != nil {
		return nil, err
	}
	text, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	exists, err := s.idioms.Exists(ctx, in.IdiomID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Idiom", in.IdiomID)
	}

	comment := &models.Comment{Content: text, AuthorID: in.UserID, IdiomID: in.IdiomID}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, mapRepoError(err, "Idiom", in.IdiomID)
	}
	observability.Logger.InfoContext(ctx, "comment created", "comment_id", comment.ID, "idiom_id", in.IdiomID)
	return comment, nil
}

func (s *ThreadService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.CommentID, "comment"); err != nil {
		return nil, err
	}
	text, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.comments.GetByID(ctx, in.CommentID); err != nil {
		return nil, mapRepoError(err, "Comment", in.CommentID)
	}

	reply := &models.Reply{Content: text, AuthorID: in.UserID, CommentID: in.CommentID}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, mapRepoError(err, "Comment", in.CommentID)
	}
	observability.Logger.InfoContext(ctx, "reply created", "reply_id", reply.ID, "comment_id", in.CommentID)
	return reply, nil
}

func (s *ThreadService) UpdateComment(ctx context.Context, in EditInput) (*models.Comment, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.ID, "comment"); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, in.ID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", in.ID)
	}
	if comment.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}
	text, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(ctx, comment, text); err != nil {
		return nil, mapRepoError(err, "Comment", in.ID)
	}
	if err := s.attachCommentSummaries(ctx, []*models.Comment{comment}, in.UserID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ThreadService) UpdateReply(ctx context.Context, in EditInput) (*models.Reply, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.ID, "reply"); err != nil {
		return nil, err
	}

	reply, err := s.replies.GetByID(ctx, in.ID)
	if err != nil {
		return nil, mapRepoError(err, "Reply", in.ID)
	}
	if reply.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own replies")
	}
	text, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	if err := s.replies.UpdateContent(ctx, reply, text); err != nil {
		return nil, mapRepoError(err, "Reply", in.ID)
	}
	if err := s.attachReplySummaries(ctx, []*models.Reply{reply}, in.UserID); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteComment removes the comment along with its replies and reactions.
func (s *ThreadService) DeleteComment(ctx context.Context, userID, commentID int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID(commentID, "comment"); err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return mapRepoError(err, "Comment", commentID)
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return mapRepoError(err, "Comment", commentID)
	}
	observability.Logger.InfoContext(ctx, "comment deleted", "comment_id", commentID)
	return nil
}

func (s *ThreadService) DeleteReply(ctx context.Context, userID, replyID int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID(replyID, "reply"); err != nil {
		return err
	}

	reply, err := s.replies.GetByID(ctx, replyID)
	if err != nil {
		return mapRepoError(err, "Reply", replyID)
	}
	if reply.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own replies")
	}
	if err := s.replies.Delete(ctx, replyID); err != nil {
		return mapRepoError(err, "Reply", replyID)
	}
	observability.Logger.InfoContext(ctx, "reply deleted", "reply_id", replyID)
	return nil
}

// ListByIdiom returns the comment tree of an idiom with reaction counts and the viewer's reactions.
func (s *ThreadService) ListByIdiom(ctx context.Context, idiomID, viewerID int) ([]models.Comment, error) {
	if err := requireID(idiomID, "idiom"); err != nil {
		return nil, err
	}
	exists, err := s.idioms.Exists(ctx, idiomID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Idiom", idiomID)
	}

	comments, err := s.comments.ListByIdiom(ctx, idiomID)
	if err != nil {
		return nil, mapRepoError(err, "Idiom", idiomID)
	}

	commentPtrs := make([]*models.Comment, len(comments))
	var replyPtrs []*models.Reply
	for i := range comments {
		commentPtrs[i] = &comments[i]
		for j := range comments[i].Replies {
			replyPtrs = append(replyPtrs, &comments[i].Replies[j])
		}
	}
	if err := s.attachCommentSummaries(ctx, commentPtrs, viewerID); err != nil {
		return nil, err
	}
	if err := s.attachReplySummaries(ctx, replyPtrs, viewerID); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *ThreadService) attachCommentSummaries(ctx context.Context, comments []*models.Comment, viewerID int) error {
	ids := make([]int, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	summaries, err := s.reactions.Summaries(ctx, models.TargetComment, ids, viewerID)
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, c := range comments {
		sum := summaries[c.ID]
		c.Likes, c.Dislikes, c.UserVote = sum.Likes, sum.Dislikes, sum.UserVote
	}
	return nil
}

func (s *ThreadService) attachReplySummaries(ctx context.Context, replies []*models.Reply, viewerID int) error {
	ids := make([]int, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}
	summaries, err := s.reactions.Summaries(ctx, models.TargetReply, ids, viewerID)
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, r := range replies {
		sum := summaries[r.ID]
		r.Likes, r.Dislikes, r.UserVote = sum.Likes, sum.Dislikes, sum.UserVote
	}
	return nil
}
