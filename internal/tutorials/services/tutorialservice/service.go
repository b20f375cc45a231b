package tutorialservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/validation"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	repo "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/Leopold1975/tutorials_control/pkg/logger"
)

type TutorialService struct {
	tutorialRepo  Repository
	tutorialCache Cache
	lg            logger.Logger
	now           func() time.Time
}

type Repository interface {
	CreateTutorial(context.Context, models.Tutorial) (int64, error)
	GetTutorial(context.Context, int64) (models.Tutorial, error)
	UpdateTutorial(context.Context, models.Tutorial) error
	DeleteTutorial(context.Context, int64) error
	ListTutorials(context.Context, repo.ListRequest) ([]models.Tutorial, error)
}

type Cache interface {
	SetTutorial(context.Context, models.Tutorial) error
	GetTutorial(context.Context, int64) (models.Tutorial, error)
	DeleteTutorial(context.Context, int64) error
}

func New(tutorialRepo Repository, tutorialCache Cache, lg logger.Logger) *TutorialService {
	return &TutorialService{
		tutorialRepo:  tutorialRepo,
		tutorialCache: tutorialCache,
		lg:            lg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (ts *TutorialService) CreateTutorial(ctx context.Context, req CreateTutorialRequest) (models.Tutorial, error) {
	return ts.SaveTutorial(ctx, models.Tutorial{ //nolint:exhaustruct
		Title:       req.Title,
		TutorialURL: req.TutorialURL,
		Description: req.Description,
		Published:   req.Published,
	})
}

// SaveTutorial inserts t when it has no ID yet and updates the stored row
// otherwise. The returned tutorial carries the ID and timestamps.
func (ts *TutorialService) SaveTutorial(ctx context.Context, t models.Tutorial) (models.Tutorial, error) {
	if err := validation.Struct(CreateTutorialRequest{
		Title:       t.Title,
		TutorialURL: t.TutorialURL,
	}); err != nil {
		return models.Tutorial{}, err //nolint:wrapcheck
	}

	t.UpdatedAt = ts.now()

	if t.ID == 0 {
		t.CreatedAt = t.UpdatedAt

		id, err := ts.tutorialRepo.CreateTutorial(ctx, t)
		if err != nil {
			return models.Tutorial{}, fmt.Errorf("create tutorial error: %w", err)
		}

		t.ID = id
	} else {
		if err := ts.tutorialRepo.UpdateTutorial(ctx, t); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return models.Tutorial{}, ErrNotFound
			}

			return models.Tutorial{}, fmt.Errorf("update tutorial error: %w", err)
		}

		// CreatedAt is not part of an update, read it back for the cache.
		stored, err := ts.tutorialRepo.GetTutorial(ctx, t.ID)
		if err != nil {
			return models.Tutorial{}, fmt.Errorf("get tutorial error: %w", err)
		}

		t = stored
	}

	if err := ts.tutorialCache.SetTutorial(ctx, t); err != nil {
		ts.lg.Errorf("set tutorial cache error: %s", err.Error())
	}

	return t, nil
}

func (ts *TutorialService) GetTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	t, err := ts.tutorialCache.GetTutorial(ctx, id)
	if err == nil {
		ts.lg.Debugf("cache hit tutorial %d", id)

		return t, nil
	}

	if !errors.Is(err, repo.ErrNotFound) {
		ts.lg.Errorf("get tutorial cache error: %s", err.Error())
	}

	ts.lg.Debugf("cache missed tutorial %d", id)

	t, err = ts.tutorialRepo.GetTutorial(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Tutorial{}, ErrNotFound
		}

		return models.Tutorial{}, fmt.Errorf("get tutorial error: %w", err)
	}

	if err := ts.cacheStored(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Tutorial{}, ErrNotFound
		}

		ts.lg.Errorf("set tutorial cache error: %s", err.Error())
	}

	return t, nil
}

// cacheStored caches t and then checks the row still exists. A delete that
// lands between reading t and caching it has already run its eviction, so
// the entry is evicted here instead and repo.ErrNotFound is returned.
func (ts *TutorialService) cacheStored(ctx context.Context, t models.Tutorial) error {
	if err := ts.tutorialCache.SetTutorial(ctx, t); err != nil {
		return fmt.Errorf("set tutorial cache error: %w", err)
	}

	_, err := ts.tutorialRepo.GetTutorial(ctx, t.ID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("get tutorial error: %w", err)
	}

	if err := ts.tutorialCache.DeleteTutorial(ctx, t.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("delete tutorial cache error: %w", err)
	}

	return repo.ErrNotFound
}

func (ts *TutorialService) ListTutorials(ctx context.Context, req ListRequest) ([]models.Tutorial, error) {
	tutorials, err := ts.tutorialRepo.ListTutorials(ctx, repo.ListRequest{
		Title:     req.Title,
		Published: req.Published,
		Offset:    req.Offset,
		Limit:     req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list tutorials error: %w", err)
	}

	return tutorials, nil
}

// DeleteTutorial removes the row first and evicts the cache entry after it,
// so a concurrent read cannot put the deleted tutorial back.
func (ts *TutorialService) DeleteTutorial(ctx context.Context, id int64) error {
	if err := ts.tutorialRepo.DeleteTutorial(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete tutorial error: %w", err)
	}

	if err := ts.tutorialCache.DeleteTutorial(ctx, id); err != nil && !errors.Is(err, repo.ErrNotFound) {
		ts.lg.Errorf("delete tutorial cache error: %s", err.Error())
	}

	return nil
}

// BackgroundRefresh loads published tutorials into the cache right away and
// then every ttl until ctx is done.
func (ts *TutorialService) BackgroundRefresh(ctx context.Context, ttl time.Duration) {
	t := time.NewTicker(ttl)
	defer t.Stop()

	if err := ts.refresh(ctx); err != nil {
		ts.lg.Errorf("refresh error: %s", err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := ts.refresh(ctx); err != nil {
				ts.lg.Errorf("refresh error: %s", err.Error())
			}
		}
	}
}

func (ts *TutorialService) refresh(ctx context.Context) error {
	published := true

	tutorials, err := ts.tutorialRepo.ListTutorials(ctx, repo.ListRequest{Published: &published})
	if err != nil {
		return fmt.Errorf("list tutorials error: %w", err)
	}

	for _, t := range tutorials {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled error: %w", err)
		}

		if err := ts.cacheStored(ctx, t); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
	}

	return nil
}
