package aggregate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/repository"
	"github.com/stitts-dev/shot-analytics/internal/testutil"
)

type fixture struct {
	shots      *repository.ShotRepository
	rounds     *repository.RoundStore
	aggregator *HoleAggregator
	round      *models.Round
}

func setupFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t, repository.Migrate)
	require.NoError(t, db.Create(&models.CourseHole{CourseID: "links", HoleNumber: 2, Par: 3}).Error)
	require.NoError(t, db.Create(&models.CourseHole{CourseID: "links", HoleNumber: 3, Par: 5}).Error)

	f := &fixture{
		shots:  repository.NewShotRepository(db),
		rounds: repository.NewRoundStore(db),
	}
	f.aggregator = NewHoleAggregator(f.shots, f.rounds, repository.NewCourseReference(db),
		AggregatorConfig{DefaultPar: 4, Concurrency: 4}, logrus.New())

	f.round = &models.Round{UserID: "user-1", CourseID: "links", PlayedAt: time.Now()}
	require.NoError(t, f.rounds.CreateRound(context.Background(), f.round))
	return f
}

func (f *fixture) log(t *testing.T, hole int, category models.ShotCategory, endLie models.Lie) {
	require.NoError(t, f.shots.Append(context.Background(), &models.Shot{
		UserID: "user-1", RoundID: f.round.ID, HoleNumber: hole, Category: category, EndLie: endLie,
	}))
}

func TestRecompute_ParFourHole(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.log(t, 1, models.CategoryTee, models.LieFairway)
	f.log(t, 1, models.CategoryApproach, models.LieGreen)
	f.log(t, 1, models.CategoryPutt, models.LieGreen)
	f.log(t, 1, models.CategoryPutt, models.LieHoled)

	require.NoError(t, f.aggregator.Recompute(ctx, f.round.ID, 1))

	hole, err := f.rounds.GetHole(ctx, f.round.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, hole.Par, "unknown course hole seeds the default par")
	require.NotNil(t, hole.GrossScore)
	assert.Equal(t, 4, *hole.GrossScore)
	assert.True(t, hole.FIR)
	assert.True(t, hole.GIR)
	assert.Equal(t, 2, hole.Putts)
	assert.Equal(t, 0, hole.Penalties)

	round, err := f.rounds.GetRound(ctx, f.round.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, round.TotalScore)
	assert.Equal(t, 4, round.ParTotal)
}

func TestRecompute_Idempotent(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.log(t, 3, models.CategoryTee, models.LieRough)
	f.log(t, 3, models.CategoryApproach, models.LieFairway)
	f.log(t, 3, models.CategoryApproach, models.LieGreen)

	require.NoError(t, f.aggregator.Recompute(ctx, f.round.ID, 3))
	first, err := f.rounds.GetHole(ctx, f.round.ID, 3)
	require.NoError(t, err)
	firstRound, err := f.rounds.GetRound(ctx, f.round.ID)
	require.NoError(t, err)

	require.NoError(t, f.aggregator.Recompute(ctx, f.round.ID, 3))
	second, err := f.rounds.GetHole(ctx, f.round.ID, 3)
	require.NoError(t, err)
	secondRound, err := f.rounds.GetRound(ctx, f.round.ID)
	require.NoError(t, err)

	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
	assert.Equal(t, 5, second.Par, "par seeded from course reference")
	assert.False(t, second.FIR)
	assert.True(t, second.GIR)
	assert.Equal(t, firstRound.TotalScore, secondRound.TotalScore)
	assert.Equal(t, firstRound.ParTotal, secondRound.ParTotal)
}

func TestRecompute_EmptyHole(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.aggregator.Recompute(ctx, f.round.ID, 2))

	hole, err := f.rounds.GetHole(ctx, f.round.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, hole.Par)
	assert.Nil(t, hole.GrossScore)
	assert.False(t, hole.FIR)
	assert.False(t, hole.GIR)
	assert.Equal(t, 0, hole.Putts)

	round, err := f.rounds.GetRound(ctx, f.round.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, round.TotalScore)
	assert.Equal(t, 3, round.ParTotal)
}

func TestRecompute_MissingRoundIsNoOp(t *testing.T) {
	f := setupFixture(t)
	assert.NoError(t, f.aggregator.Recompute(context.Background(), uuid.New(), 1))
}

func TestRecomputeRound_AllHoles(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for hole := 1; hole <= 6; hole++ {
		f.log(t, hole, models.CategoryTee, models.LieFairway)
		f.log(t, hole, models.CategoryApproach, models.LieGreen)
		f.log(t, hole, models.CategoryPutt, models.LieHoled)
	}

	require.NoError(t, f.aggregator.RecomputeRound(ctx, f.round.ID))

	round, err := f.rounds.GetRoundWithHoles(ctx, f.round.ID)
	require.NoError(t, err)
	require.Len(t, round.Holes, 6)
	assert.Equal(t, 18, round.TotalScore)
	// holes 2 and 3 come from the course reference (3 and 5), the rest default to 4
	assert.Equal(t, 4*4+3+5, round.ParTotal)
}

func TestRecompute_ConcurrentDifferentHoles(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for hole := 1; hole <= 9; hole++ {
		f.log(t, hole, models.CategoryTee, models.LieFairway)
		f.log(t, hole, models.CategoryPutt, models.LieHoled)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 18)
	for hole := 1; hole <= 9; hole++ {
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(h int) {
				defer wg.Done()
				errs <- f.aggregator.Recompute(ctx, f.round.ID, h)
			}(hole)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	round, err := f.rounds.GetRound(ctx, f.round.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, round.TotalScore, "no lost updates to the round totals")
}

// MockAggregateStore for persistence failure paths
type MockAggregateStore struct {
	mock.Mock
}

func (m *MockAggregateStore) GetRound(ctx context.Context, roundID uuid.UUID) (*models.Round, error) {
	args := m.Called(ctx, roundID)
	if r := args.Get(0); r != nil {
		return r.(*models.Round), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAggregateStore) EnsureHole(ctx context.Context, roundID uuid.UUID, holeNumber, par int) (*models.RoundHole, error) {
	args := m.Called(ctx, roundID, holeNumber, par)
	if h := args.Get(0); h != nil {
		return h.(*models.RoundHole), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAggregateStore) UpsertHole(ctx context.Context, hole *models.RoundHole) error {
	return m.Called(ctx, hole).Error(0)
}

func (m *MockAggregateStore) UpsertRoundTotals(ctx context.Context, roundID uuid.UUID) error {
	return m.Called(ctx, roundID).Error(0)
}

func (m *MockAggregateStore) HoleNumbers(ctx context.Context, roundID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).([]int), args.Error(1)
}

type staticShots []models.Shot

func (s staticShots) FetchForHole(ctx context.Context, roundID uuid.UUID, holeNumber int) ([]models.Shot, error) {
	return s, nil
}

type failingCourse struct{}

func (failingCourse) GetHolePar(ctx context.Context, courseID string, holeNumber int) (int, bool, error) {
	return 0, false, models.ErrUpstreamUnavailable
}

func TestRecompute_PersistenceFailurePropagates(t *testing.T) {
	store := new(MockAggregateStore)
	roundID := uuid.New()
	writeErr := errors.Join(models.ErrPersistence, errors.New("disk full"))

	store.On("GetRound", mock.Anything, roundID).Return(&models.Round{ID: roundID, CourseID: "x"}, nil)
	store.On("EnsureHole", mock.Anything, roundID, 1, 4).Return(&models.RoundHole{RoundID: roundID, HoleNumber: 1, Par: 4}, nil)
	store.On("UpsertHole", mock.Anything, mock.Anything).Return(writeErr)

	aggregator := NewHoleAggregator(staticShots{shot(1, models.CategoryTee, models.LieFairway)}, store, failingCourse{}, AggregatorConfig{}, logrus.New())

	err := aggregator.Recompute(context.Background(), roundID, 1)
	assert.True(t, errors.Is(err, models.ErrPersistence))
	store.AssertNotCalled(t, "UpsertRoundTotals", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestRecompute_CourseLookupFailureUsesDefaultPar(t *testing.T) {
	store := new(MockAggregateStore)
	roundID := uuid.New()

	store.On("GetRound", mock.Anything, roundID).Return(&models.Round{ID: roundID, CourseID: "x"}, nil)
	store.On("EnsureHole", mock.Anything, roundID, 7, 4).Return(&models.RoundHole{RoundID: roundID, HoleNumber: 7, Par: 4}, nil)
	store.On("UpsertHole", mock.Anything, mock.MatchedBy(func(h *models.RoundHole) bool {
		return h.GrossScore != nil && *h.GrossScore == 1 && h.FIR
	})).Return(nil)
	store.On("UpsertRoundTotals", mock.Anything, roundID).Return(nil)

	aggregator := NewHoleAggregator(staticShots{shot(1, models.CategoryTee, models.LieFairway)}, store, failingCourse{}, AggregatorConfig{DefaultPar: 4}, logrus.New())

	require.NoError(t, aggregator.Recompute(context.Background(), roundID, 7))
	store.AssertExpectations(t)
}

func TestKeyedMutex_ReleasesKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Len(t, k.locks, 2)

	unlockA()
	unlockB()
	assert.Empty(t, k.locks)
}
