package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
)

// fakeSource records the queries it receives and serves tracks named after
// each query so tests can tell which strategy produced which track.
type fakeSource struct {
	queries        []string
	tracksPerQuery int
	searchErr      error
	playlists      []model.Playlist
}

func (f *fakeSource) SearchTracks(_ context.Context, query string, limit int) ([]model.Track, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	n := f.tracksPerQuery
	if n == 0 || n > limit {
		n = limit
	}
	tracks := make([]model.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, model.Track{
			Name:   fmt.Sprintf("%s #%d", query, i+1),
			Artist: "Test Artist",
			URL:    fmt.Sprintf("https://example.com/%s/%d", query, i+1),
		})
	}
	return tracks, nil
}

func (f *fakeSource) SearchPlaylists(_ context.Context, query string, _ int) ([]model.Playlist, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.playlists, nil
}

func (f *fakeSource) IsConfigured() bool { return true }

func TestRecommendationsByMood_UnknownMood(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	_, err := svc.RecommendationsByMood(context.Background(), "grumpy", 10)
	assert.ErrorIs(t, err, ErrUnknownMood)
}

func TestRecommendationsByMood_MockFallback(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	recs, err := svc.RecommendationsByMood(context.Background(), "calm", 5)
	require.NoError(t, err)
	assert.Equal(t, "calm", recs.Mood)
	assert.Equal(t, 5, recs.TrackCount)
	assert.Len(t, recs.Tracks, 5)
	assert.NotEmpty(t, recs.Genres)
	require.NotNil(t, recs.AudioAttributes)
	assert.Equal(t, 0.2, recs.AudioAttributes.Energy)
}

func TestRecommendationsByMood_SearchStrategies(t *testing.T) {
	source := &fakeSource{tracksPerQuery: 3}
	svc := NewMatcherService(source, nil)

	recs, err := svc.RecommendationsByMood(context.Background(), "calm", 20)
	require.NoError(t, err)

	// Two genre queries plus one keyword fill query
	require.Len(t, source.queries, 3)
	assert.True(t, strings.HasPrefix(source.queries[0], "genre:"), source.queries[0])
	assert.True(t, strings.HasPrefix(source.queries[1], "genre:"), source.queries[1])
	assert.True(t, strings.HasPrefix(source.queries[2], "calm "), source.queries[2])

	assert.Equal(t, len(recs.Tracks), recs.TrackCount)
	assert.LessOrEqual(t, len(recs.Tracks), 20)
}

func TestRecommendationsByMood_DeduplicatesTracks(t *testing.T) {
	source := &fakeSource{}
	svc := NewMatcherService(source, nil)

	recs, err := svc.RecommendationsByMood(context.Background(), "calm", 20)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, track := range recs.Tracks {
		assert.False(t, seen[track.URL], "duplicate track %s", track.URL)
		seen[track.URL] = true
	}
}

func TestRecommendationsByMood_SearchErrorsYieldEmpty(t *testing.T) {
	source := &fakeSource{searchErr: errors.New("rate limited")}
	svc := NewMatcherService(source, nil)

	recs, err := svc.RecommendationsByMood(context.Background(), "dark", 10)
	require.NoError(t, err)
	assert.Empty(t, recs.Tracks)
	assert.Equal(t, 0, recs.TrackCount)
}

func TestMultiMoodRecommendations_Split(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	recs, err := svc.MultiMoodRecommendations(context.Background(), "calm", []string{"dreamy", "romantic"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "calm", recs.PrimaryMood)
	assert.Equal(t, []string{"dreamy", "romantic"}, recs.SecondaryMoods)
	assert.LessOrEqual(t, len(recs.Tracks), 10)
	assert.Equal(t, len(recs.Tracks), recs.TrackCount)

	// Genres merge across moods without duplicates
	seen := make(map[string]bool)
	for _, g := range recs.Genres {
		assert.False(t, seen[g], "duplicate genre %s", g)
		seen[g] = true
	}
}

func TestMultiMoodRecommendations_SkipsBadSecondary(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	recs, err := svc.MultiMoodRecommendations(context.Background(), "joyful", []string{"grumpy"}, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, recs.Tracks)
}

func TestMultiMoodRecommendations_UnknownPrimaryFails(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	_, err := svc.MultiMoodRecommendations(context.Background(), "grumpy", nil, 10)
	assert.ErrorIs(t, err, ErrUnknownMood)
}

func TestMultiMoodRecommendations_NilSecondaryMarshalsAsEmpty(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	recs, err := svc.MultiMoodRecommendations(context.Background(), "calm", nil, 5)
	require.NoError(t, err)
	assert.NotNil(t, recs.SecondaryMoods)
	assert.Empty(t, recs.SecondaryMoods)
}

func TestPlaylistsByMood(t *testing.T) {
	source := &fakeSource{playlists: []model.Playlist{{Name: "Chill Vibes"}}}
	svc := NewMatcherService(source, nil)

	playlists, err := svc.PlaylistsByMood(context.Background(), "calm", 5)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Chill Vibes", playlists[0].Name)

	// Query is the mood name plus its top keywords
	require.Len(t, source.queries, 1)
	assert.True(t, strings.HasPrefix(source.queries[0], "calm "), source.queries[0])
}

func TestPlaylistsByMood_MockFallback(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	playlists, err := svc.PlaylistsByMood(context.Background(), "dreamy", 3)
	require.NoError(t, err)
	assert.Len(t, playlists, 3)
	assert.Equal(t, "moodboard", playlists[0].Owner)
}

func TestPlaylistsByMood_UnknownMood(t *testing.T) {
	svc := NewMatcherService(nil, nil)

	_, err := svc.PlaylistsByMood(context.Background(), "grumpy", 5)
	assert.ErrorIs(t, err, ErrUnknownMood)
}
