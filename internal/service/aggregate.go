package service

import "github.com/emilythestrangee/idiom-hub/backend/internal/models"

// BuildAggregate derives the read model of an idiom from its vote rows and comment tree.
// viewerID 0 is an anonymous viewer. Nothing here is cached; callers rebuild it per read.
func BuildAggregate(votes []models.IdiomVote, comments []models.Comment, viewerID int) models.IdiomAggregate {
	var agg models.IdiomAggregate
	for _, v := range votes {
		switch v.VoteType {
		case models.VoteUp:
			agg.Upvotes++
		case models.VoteDown:
			agg.Downvotes++
		}
		if viewerID > 0 && v.UserID == viewerID {
			vt := v.VoteType
			agg.UserVote = &vt
		}
	}

	agg.TotalComments = len(comments)
	for _, c := range comments {
		agg.TotalComments += len(c.Replies)
	}
	return agg
}
