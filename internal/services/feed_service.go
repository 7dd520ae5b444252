package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tripmate/internal/models/db_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type FeedServiceInterface interface {
	GetFeed(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.FeedItem, error)
}

type FeedService struct {
	followRepo     repositories.FollowRepository
	tripRepo       repositories.TripRepository
	experienceRepo repositories.ExperienceRepository
	logger         *zap.Logger
}

func NewFeedService(
	followRepo repositories.FollowRepository,
	tripRepo repositories.TripRepository,
	experienceRepo repositories.ExperienceRepository,
	logger *zap.Logger,
) FeedServiceInterface {
	return &FeedService{
		followRepo:     followRepo,
		tripRepo:       tripRepo,
		experienceRepo: experienceRepo,
		logger:         logger,
	}
}

type feedEntry struct {
	createdAt int64
	item      resp.FeedItem
}

// GetFeed merges trips and experiences of followed users newest first. Each
// source is read up to page*pageSize rows, which is enough to fill the page.
// Pages past utils.MaxPage are rejected.
func (s *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]resp.FeedItem, error) {
	if page < 1 || page > utils.MaxPage {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > utils.MaxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	following, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		s.logger.Error("list following ids", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if len(following) == 0 {
		return []resp.FeedItem{}, nil
	}

	limit := page * pageSize
	var (
		trips       []db_models.Trip
		experiences []db_models.Experience
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trips, err = s.tripRepo.ListByCreators(gctx, following, limit)
		return err
	})
	g.Go(func() error {
		var err error
		experiences, err = s.experienceRepo.ListByUsers(gctx, following, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load feed", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	entries := make([]feedEntry, 0, len(trips)+len(experiences))
	for i := range trips {
		t := db_models.BuildTripResponse(&trips[i])
		entries = append(entries, feedEntry{
			createdAt: trips[i].CreatedAt,
			item:      resp.FeedItem{Kind: resp.FeedItemTrip, CreatedAt: t.CreatedAt, Trip: &t},
		})
	}
	for i := range experiences {
		e := db_models.BuildExperienceResponse(&experiences[i])
		entries = append(entries, feedEntry{
			createdAt: experiences[i].CreatedAt,
			item:      resp.FeedItem{Kind: resp.FeedItemExperience, CreatedAt: e.CreatedAt, Experience: &e},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].createdAt > entries[j].createdAt
	})

	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []resp.FeedItem{}, nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}

	out := make([]resp.FeedItem, 0, end-start)
	for _, e := range entries[start:end] {
		out = append(out, e.item)
	}
	return out, nil
}
