package service

import (
	"context"
	"strings"
	"time"

	"github.com/emilythestrangee/idiom-hub/backend/internal/cache"
	"github.com/emilythestrangee/idiom-hub/backend/internal/content"
	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
)

const (
	categoriesTTL   = 10 * time.Minute
	defaultPageSize = 20
	maxPageSize     = 100
)

type IdiomService struct {
	idioms     repository.IdiomRepository
	favourites repository.FavouriteRepository
	threads    *ThreadService
	cache      *cache.Cache
}

func NewIdiomService(
	idioms repository.IdiomRepository,
	favourites repository.FavouriteRepository,
	threads *ThreadService,
	c *cache.Cache,
) *IdiomService {
	return &IdiomService{idioms: idioms, favourites: favourites, threads: threads, cache: c}
}

// newIdiomView builds the list-level view: aggregate but no comment tree.
func newIdiomView(idiom models.Idiom, viewerID int) models.IdiomView {
	view := models.IdiomView{
		Idiom:          idiom,
		IdiomAggregate: BuildAggregate(idiom.Votes, idiom.Comments, viewerID),
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	return view
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (s *IdiomService) Create(ctx context.Context, userID int, req models.CreateIdiomRequest) (*models.IdiomView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	idiom := &models.Idiom{
		Title:       strings.TrimSpace(req.Title),
		Meaning:     strings.TrimSpace(req.Meaning),
		Example:     strings.TrimSpace(req.Example),
		Explanation: strings.TrimSpace(req.Explanation),
		Etymology:   strings.TrimSpace(req.Etymology),
		Category:    strings.TrimSpace(req.Category),
		Difficulty:  req.Difficulty,
		Tags:        cleanTags(req.Tags),
		AuthorID:    userID,
	}
	if idiom.Title == "" || idiom.Meaning == "" || idiom.Example == "" || idiom.Explanation == "" {
		return nil, models.NewValidationError("Title, meaning, example and explanation are required")
	}
	if idiom.Difficulty == "" {
		idiom.Difficulty = "beginner"
	}

	if err := s.idioms.Create(ctx, idiom); err != nil {
		return nil, mapRepoError(err, "User", userID)
	}
	s.invalidateCategories(ctx)
	observability.Logger.InfoContext(ctx, "idiom created", "idiom_id", idiom.ID)

	view := newIdiomView(*idiom, userID)
	return &view, nil
}

func (s *IdiomService) List(ctx context.Context, filter models.IdiomFilter, viewerID int) ([]models.IdiomView, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	filter.Category = strings.TrimSpace(filter.Category)

	idioms, total, err := s.idioms.List(ctx, filter)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	views, err := s.views(ctx, idioms, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *IdiomService) ListMine(ctx context.Context, userID int) ([]models.IdiomView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	idioms, err := s.idioms.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.views(ctx, idioms, userID)
}

func (s *IdiomService) views(ctx context.Context, idioms []models.Idiom, viewerID int) ([]models.IdiomView, error) {
	ids := make([]int, len(idioms))
	for i, idiom := range idioms {
		ids[i] = idiom.ID
	}
	favs, err := s.favourites.Contains(ctx, viewerID, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]models.IdiomView, len(idioms))
	for i, idiom := range idioms {
		views[i] = newIdiomView(idiom, viewerID)
		views[i].IsFavourite = favs[idiom.ID]
	}
	return views, nil
}

// Get returns the idiom detail: fields, rendered explanation, aggregate and comment tree.
func (s *IdiomService) Get(ctx context.Context, id, viewerID int) (*models.IdiomView, error) {
	if err := requireID(id, "idiom"); err != nil {
		return nil, err
	}
	idiom, err := s.idioms.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Idiom", id)
	}

	comments, err := s.threads.ListByIdiom(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	favs, err := s.favourites.Contains(ctx, viewerID, []int{id})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	view := newIdiomView(*idiom, viewerID)
	view.IdiomAggregate = BuildAggregate(idiom.Votes, comments, viewerID)
	view.Comments = comments
	view.ExplanationHTML = content.RenderMarkdown(idiom.Explanation)
	view.IsFavourite = favs[id]
	return &view, nil
}

func (s *IdiomService) Update(ctx context.Context, userID, id int, req models.UpdateIdiomRequest) (*models.IdiomView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := requireID(id, "idiom"); err != nil {
		return nil, err
	}

	idiom, err := s.idioms.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Idiom", id)
	}
	if idiom.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only edit your own idioms")
	}

	fields := map[string]any{}
	required := []struct {
		column string
		value  *string
	}{
		{"title", req.Title},
		{"meaning", req.Meaning},
		{"example", req.Example},
		{"explanation", req.Explanation},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, models.NewValidationError(f.column + " cannot be empty")
		}
		fields[f.column] = v
	}
	if req.Etymology != nil {
		fields["etymology"] = strings.TrimSpace(*req.Etymology)
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.Tags != nil {
		idiom.Tags = cleanTags(req.Tags)
		fields["tags"] = idiom.Tags
	}

	if err := s.idioms.Update(ctx, idiom, fields); err != nil {
		return nil, mapRepoError(err, "Idiom", id)
	}
	if _, ok := fields["category"]; ok {
		s.invalidateCategories(ctx)
	}
	return s.Get(ctx, id, userID)
}

func (s *IdiomService) Delete(ctx context.Context, userID, id int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := requireID(id, "idiom"); err != nil {
		return err
	}

	idiom, err := s.idioms.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "Idiom", id)
	}
	if idiom.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own idioms")
	}
	if err := s.idioms.Delete(ctx, id); err != nil {
		return mapRepoError(err, "Idiom", id)
	}
	s.invalidateCategories(ctx)
	observability.Logger.InfoContext(ctx, "idiom deleted", "idiom_id", id)
	return nil
}

// Categories returns the distinct idiom categories, served from Redis when available.
func (s *IdiomService) Categories(ctx context.Context) ([]string, error) {
	categories, err := cache.Remember(ctx, s.cache, cache.CategoriesKey, categoriesTTL, s.idioms.Categories)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *IdiomService) invalidateCategories(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CategoriesKey); err != nil {
		observability.Logger.WarnContext(ctx, "failed to invalidate categories cache", "error", err)
	}
}
