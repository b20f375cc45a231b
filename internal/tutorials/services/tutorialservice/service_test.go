package tutorialservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/dbtest"
	"github.com/Leopold1975/tutorials_control/internal/pkg/validation"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialcache"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialcache/redis"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo/sqlite"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/tutorialservice"
	"github.com/Leopold1975/tutorials_control/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

const pytestDocs = "https://pytest-django.readthedocs.io/en/latest/index.html"

type TutorialServiceSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	rdb     *goredis.Client
	repo    *hookedRepo
	service *tutorialservice.TutorialService
}

// hookedRepo runs a one-shot hook inside a repository call to interleave
// another service call with it.
type hookedRepo struct {
	tutorialservice.Repository
	beforeDelete func()
	afterGet     func()
	afterList    func()
}

func once(hook *func()) {
	if f := *hook; f != nil {
		*hook = nil
		f()
	}
}

func (r *hookedRepo) DeleteTutorial(ctx context.Context, id int64) error {
	once(&r.beforeDelete)

	return r.Repository.DeleteTutorial(ctx, id) //nolint:wrapcheck
}

func (r *hookedRepo) GetTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	t, err := r.Repository.GetTutorial(ctx, id)
	if err == nil {
		once(&r.afterGet)
	}

	return t, err //nolint:wrapcheck
}

func (r *hookedRepo) ListTutorials(ctx context.Context, req tutorialrepo.ListRequest) ([]models.Tutorial, error) {
	tutorials, err := r.Repository.ListTutorials(ctx, req)
	once(&r.afterList)

	return tutorials, err //nolint:wrapcheck
}

func (ts *TutorialServiceSuite) SetupTest() {
	ts.mr = miniredis.RunT(ts.T())
	ts.rdb = goredis.NewClient(&goredis.Options{Addr: ts.mr.Addr()})

	cache := redis.NewWithClient(ts.rdb, time.Minute)
	ts.repo = &hookedRepo{Repository: sqlite.New(dbtest.DB(ts.T()))}
	ts.service = tutorialservice.New(ts.repo, cache, logger.NewNop())
}

func (ts *TutorialServiceSuite) TearDownTest() {
	ts.rdb.Close()
}

func (ts *TutorialServiceSuite) newTutorial(title string) models.Tutorial {
	t, err := ts.service.CreateTutorial(context.Background(), tutorialservice.CreateTutorialRequest{
		Title:       title,
		TutorialURL: pytestDocs,
		Description: "Tutorial on how to apply pytest to a Django application",
		Published:   true,
	})
	ts.Require().NoError(err)

	return t
}

func (ts *TutorialServiceSuite) countByTitle(title string) int {
	tutorials, err := ts.service.ListTutorials(context.Background(), tutorialservice.ListRequest{Title: title})
	ts.Require().NoError(err)

	return len(tutorials)
}

func (ts *TutorialServiceSuite) TestCreateTutorial() {
	t := ts.newTutorial("Pytest")

	ts.Require().NotZero(t.ID)
	ts.Require().Equal("Pytest", t.Title)
	ts.Require().False(t.CreatedAt.IsZero())
	ts.Require().Equal(1, ts.countByTitle("Pytest"))
	ts.Require().True(ts.mr.Exists("tutorial:1"))
}

func (ts *TutorialServiceSuite) TestSaveTutorialRenames() {
	t := ts.newTutorial("Pytest")

	t.Title = "Pytest-Django"
	saved, err := ts.service.SaveTutorial(context.Background(), t)
	ts.Require().NoError(err)
	ts.Require().Equal(t.ID, saved.ID)

	ts.Require().Equal(1, ts.countByTitle("Pytest-Django"))
	ts.Require().Zero(ts.countByTitle("Pytest"))

	// the cache follows the save
	got, err := ts.service.GetTutorial(context.Background(), t.ID)
	ts.Require().NoError(err)
	ts.Require().Equal("Pytest-Django", got.Title)
	ts.Require().True(t.CreatedAt.Equal(got.CreatedAt))
}

func (ts *TutorialServiceSuite) TestCompareTutorials() {
	first := ts.newTutorial("Pytest")
	second := ts.newTutorial("More-Pytest")

	ts.Require().NotEqual(first.ID, second.ID)
}

func (ts *TutorialServiceSuite) TestGetTutorialFallsBackToRepo() {
	t := ts.newTutorial("Pytest")
	ts.mr.FlushAll()

	got, err := ts.service.GetTutorial(context.Background(), t.ID)
	ts.Require().NoError(err)
	ts.Require().Equal("Pytest", got.Title)
	ts.Require().True(ts.mr.Exists("tutorial:1"))
}

func (ts *TutorialServiceSuite) TestDeleteTutorial() {
	ctx := context.Background()
	t := ts.newTutorial("Pytest")

	ts.Require().NoError(ts.service.DeleteTutorial(ctx, t.ID))
	ts.Require().False(ts.mr.Exists("tutorial:1"))

	_, err := ts.service.GetTutorial(ctx, t.ID)
	ts.Require().ErrorIs(err, tutorialservice.ErrNotFound)

	ts.Require().ErrorIs(ts.service.DeleteTutorial(ctx, t.ID), tutorialservice.ErrNotFound)
}

func (ts *TutorialServiceSuite) TestReadDuringDeleteIsNotCached() {
	ctx := context.Background()
	t := ts.newTutorial("Pytest")
	ts.mr.FlushAll()

	ts.repo.beforeDelete = func() {
		got, err := ts.service.GetTutorial(ctx, t.ID)
		ts.Require().NoError(err)
		ts.Require().Equal("Pytest", got.Title)
		ts.Require().True(ts.mr.Exists("tutorial:1"))
	}

	ts.Require().NoError(ts.service.DeleteTutorial(ctx, t.ID))
	ts.Require().False(ts.mr.Exists("tutorial:1"))

	_, err := ts.service.GetTutorial(ctx, t.ID)
	ts.Require().ErrorIs(err, tutorialservice.ErrNotFound)
}

func (ts *TutorialServiceSuite) TestDeleteBetweenReadAndCache() {
	ctx := context.Background()
	t := ts.newTutorial("Pytest")
	ts.mr.FlushAll()

	ts.repo.afterGet = func() {
		ts.Require().NoError(ts.service.DeleteTutorial(ctx, t.ID))
	}

	_, err := ts.service.GetTutorial(ctx, t.ID)
	ts.Require().ErrorIs(err, tutorialservice.ErrNotFound)
	ts.Require().False(ts.mr.Exists("tutorial:1"))
}

func (ts *TutorialServiceSuite) TestRefreshSkipsDeleted() {
	deleted := ts.newTutorial("Pytest")
	ts.newTutorial("More-Pytest")
	ts.mr.FlushAll()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	var deleteErr error

	ts.repo.afterList = func() {
		deleteErr = ts.service.DeleteTutorial(ctx, deleted.ID)
	}

	go func() {
		ts.service.BackgroundRefresh(ctx, time.Hour)
		close(done)
	}()

	ts.Require().Eventually(func() bool {
		return ts.mr.Exists("tutorial:2")
	}, time.Second*2, time.Millisecond*10)

	cancel()
	<-done

	ts.Require().NoError(deleteErr)
	ts.Require().False(ts.mr.Exists("tutorial:1"))
}

func (ts *TutorialServiceSuite) TestSaveMissingTutorial() {
	_, err := ts.service.SaveTutorial(context.Background(), models.Tutorial{
		ID:          99,
		Title:       "ghost",
		TutorialURL: pytestDocs,
	})
	ts.Require().ErrorIs(err, tutorialservice.ErrNotFound)
}

func (ts *TutorialServiceSuite) TestValidation() {
	ctx := context.Background()

	_, err := ts.service.CreateTutorial(ctx, tutorialservice.CreateTutorialRequest{TutorialURL: pytestDocs})
	ts.Require().ErrorIs(err, validation.ErrInvalid)

	_, err = ts.service.CreateTutorial(ctx, tutorialservice.CreateTutorialRequest{Title: "Pytest", TutorialURL: "nope"})
	ts.Require().ErrorIs(err, validation.ErrInvalid)

	t := ts.newTutorial("Pytest")
	t.Title = ""

	_, err = ts.service.SaveTutorial(ctx, t)
	ts.Require().ErrorIs(err, validation.ErrInvalid)
}

func (ts *TutorialServiceSuite) TestBackgroundRefresh() {
	ts.newTutorial("Pytest")
	ts.newTutorial("More-Pytest")
	ts.mr.FlushAll()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		ts.service.BackgroundRefresh(ctx, time.Hour)
		close(done)
	}()

	ts.Require().Eventually(func() bool {
		return ts.mr.Exists("tutorial:1") && ts.mr.Exists("tutorial:2")
	}, time.Second*2, time.Millisecond*10)

	cancel()
	<-done
}

func TestTutorialServiceSuite(t *testing.T) {
	suite.Run(t, new(TutorialServiceSuite))
}

func TestServiceWithoutCache(t *testing.T) {
	service := tutorialservice.New(sqlite.New(dbtest.DB(t)), tutorialcache.Nop{}, logger.NewNop())

	created, err := service.CreateTutorial(context.Background(), tutorialservice.CreateTutorialRequest{
		Title:       "Pytest",
		TutorialURL: pytestDocs,
	})
	if err != nil {
		t.Fatalf("create tutorial error: %v", err)
	}

	got, err := service.GetTutorial(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get tutorial error: %v", err)
	}

	if got.Title != "Pytest" {
		t.Errorf("expected title %q got %q", "Pytest", got.Title)
	}
}
