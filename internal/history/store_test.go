// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eventcheck/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Path: filepath.Join(t.TempDir(), "db", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var showtime = time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)

func sampleRun() Run {
	return Run{
		Location:  "New York",
		Genre:     "jazz",
		From:      showtime.Add(-24 * time.Hour),
		To:        showtime.Add(24 * time.Hour),
		Providers: []types.Origin{types.OriginTicketmaster, types.OriginSeatGeek},
		Result: types.VerificationResult{
			Events: []types.VerifiedEvent{
				{
					CandidateEvent: types.CandidateEvent{UID: "c-1", Title: "Jazz Night at Blue Note", Start: showtime, Location: "Blue Note, NYC", Price: "$20", URL: "https://tm.example/1"},
					Confidence:     84,
					Status:         types.StatusVerified,
					Source:         &types.MatchedSource{Name: "Jazz Night - Blue Note SF", Origin: types.OriginTicketmaster, URL: "https://tm.example/1"},
				},
				{
					CandidateEvent: types.CandidateEvent{UID: "c-2", Title: "Jazz Night", Start: showtime},
					Confidence:     77,
					Status:         types.StatusPartial,
					Source:         &types.MatchedSource{Name: "Rock Night", Origin: types.OriginSeatGeek},
					Discrepancies:  []string{`name differs: "Jazz Night" vs "Rock Night"`},
				},
				{
					CandidateEvent: types.CandidateEvent{UID: "c-3", Title: "Salsa Social"},
					Status:         types.StatusUnverified,
				},
			},
			Stats: types.Stats{TotalEvents: 3, VerifiedCount: 1, PartialCount: 1, UnverifiedCount: 1, AverageConfidence: 54},
		},
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "eventcheck.db")
	s, err := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewStoreIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventcheck.db")
	s1, err := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRun())
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	want := sampleRun()
	assert.Equal(t, id, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, want.Location, got.Location)
	assert.Equal(t, want.Genre, got.Genre)
	assert.True(t, want.From.Equal(got.From))
	assert.True(t, want.To.Equal(got.To))
	assert.Equal(t, want.Providers, got.Providers)
	assert.Equal(t, want.Result.Stats, got.Result.Stats)

	require.Len(t, got.Result.Events, 3)
	for i, e := range got.Result.Events {
		w := want.Result.Events[i]
		assert.Equal(t, w.UID, e.UID)
		assert.Equal(t, w.Title, e.Title)
		assert.True(t, w.Start.Equal(e.Start))
		assert.Equal(t, w.Status, e.Status)
		assert.Equal(t, w.Confidence, e.Confidence)
		assert.Equal(t, w.Source, e.Source)
		assert.Equal(t, w.Discrepancies, e.Discrepancies)
	}
}

func TestGetByPrefix(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r := sampleRun()
	r.ID = "abc12345-0000"
	_, err := s.Save(ctx, r)
	require.NoError(t, err)
	r.ID = "abd99999-0000"
	_, err = s.Save(ctx, r)
	require.NoError(t, err)

	got, err := s.Get(ctx, "abc1")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-0000", got.ID)

	_, err = s.Get(ctx, "ab")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Get(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, loc := range []string{"Austin", "Boston", "Chicago"} {
		r := sampleRun()
		r.Location = loc
		r.CreatedAt = showtime.Add(time.Duration(i) * time.Hour)
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Chicago", all[0].Location, "newest first")
	assert.Equal(t, "Austin", all[2].Location)
	assert.Equal(t, sampleRun().Result.Stats, all[0].Stats)
	assert.Equal(t, "jazz", all[0].Genre)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)
	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveEmptyRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, Run{ID: "empty", Location: "Nowhere"})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Result.Events)
	assert.Nil(t, got.Providers)
	assert.True(t, got.From.IsZero())
}
