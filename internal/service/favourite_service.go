package service

import (
	"context"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
)

// FavouriteService manages the per-user set of favourite idioms.
type FavouriteService struct {
	favourites repository.FavouriteRepository
	idioms     repository.IdiomRepository
}

func NewFavouriteService(favourites repository.FavouriteRepository, idioms repository.IdiomRepository) *FavouriteService {
	return &FavouriteService{favourites: favourites, idioms: idioms}
}

// Add fails with NotFound for an unknown idiom and Conflict when it is already a favourite.
func (s *FavouriteService) Add(ctx context.Context, userID, idiomID int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID(idiomID, "idiom"); err != nil {
		return err
	}

	exists, err := s.idioms.Exists(ctx, idiomID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !exists {
		return models.NewNotFoundError("Idiom", idiomID)
	}

	added, err := s.favourites.Add(ctx, userID, idiomID)
	if err != nil {
		return mapRepoError(err, "Idiom", idiomID)
	}
	if !added {
		return models.NewConflictError("Idiom is already in favourites")
	}
	observability.Logger.InfoContext(ctx, "favourite added", "idiom_id", idiomID)
	return nil
}

// Remove is idempotent: removing an idiom that is not a favourite succeeds.
func (s *FavouriteService) Remove(ctx context.Context, userID, idiomID int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID(idiomID, "idiom"); err != nil {
		return err
	}
	if err := s.favourites.Remove(ctx, userID, idiomID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns the user's favourites, most recently added first, each tagged as a favourite.
func (s *FavouriteService) List(ctx context.Context, userID int) ([]models.IdiomView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ids, err := s.favourites.IdiomIDs(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	idioms, err := s.idioms.ListByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[int]models.Idiom, len(idioms))
	for _, i := range idioms {
		byID[i.ID] = i
	}

	views := make([]models.IdiomView, 0, len(ids))
	for _, id := range ids {
		idiom, ok := byID[id]
		if !ok {
			continue
		}
		view := newIdiomView(idiom, userID)
		view.IsFavourite = true
		views = append(views, view)
	}
	return views, nil
}
