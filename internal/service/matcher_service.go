package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/client"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/mood"
)

// ErrUnknownMood is returned when a requested mood is not in the catalog.
var ErrUnknownMood = errors.New("unknown mood")

const (
	recommendationCacheTTL = 15 * time.Minute
	primaryMoodShare       = 0.6
)

// MusicMatcher defines the interface for mood-to-music matching.
type MusicMatcher interface {
	RecommendationsByMood(ctx context.Context, moodName string, limit int) (*model.MoodRecommendations, error)
	MultiMoodRecommendations(ctx context.Context, primary string, secondary []string, limit int) (*model.MultiMoodRecommendations, error)
	PlaylistsByMood(ctx context.Context, moodName string, limit int) ([]model.Playlist, error)
}

// MatcherService matches detected moods to tracks and playlists from the
// music source, with an optional redis cache in front of per-mood lookups.
type MatcherService struct {
	source client.MusicSource
	redis  *redis.Client
}

// NewMatcherService creates a matcher. redisClient may be nil to disable
// caching.
func NewMatcherService(source client.MusicSource, redisClient *redis.Client) *MatcherService {
	return &MatcherService{
		source: source,
		redis:  redisClient,
	}
}

// RecommendationsByMood returns tracks matching a single mood. Tracks come
// from a genre search over the mood's top genres plus a keyword search to
// fill the remaining slots, de-duplicated and truncated to limit.
func (s *MatcherService) RecommendationsByMood(ctx context.Context, moodName string, limit int) (*model.MoodRecommendations, error) {
	m, ok := mood.Get(moodName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, moodName)
	}

	if cached := s.cacheGet(ctx, m.Name, limit); cached != nil {
		return cached, nil
	}

	var tracks []model.Track
	if s.source == nil || !s.source.IsConfigured() {
		tracks = mockTracks(m, limit)
	} else {
		tracks = s.fetchTracks(ctx, m, limit)
	}

	recs := &model.MoodRecommendations{
		Mood:            m.Name,
		MoodDescription: mood.Description(m.Name),
		TrackCount:      len(tracks),
		Tracks:          tracks,
		Genres:          m.Genres,
		AudioAttributes: &model.AudioAttributes{
			Energy:     m.Energy,
			Valence:    m.Valence,
			TempoRange: [2]int{m.TempoMin, m.TempoMax},
		},
	}

	s.cacheSet(ctx, m.Name, limit, recs)
	return recs, nil
}

func (s *MatcherService) fetchTracks(ctx context.Context, m mood.Mood, limit int) []model.Track {
	var tracks []model.Track
	seen := make(map[string]bool)

	add := func(candidates []model.Track) {
		for _, t := range candidates {
			key := t.URL
			if key == "" {
				key = t.Name + "|" + t.Artist
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			tracks = append(tracks, t)
		}
	}

	// Strategy 1: search by the mood's top genres
	perGenre := limit / 2
	if perGenre > 10 {
		perGenre = 10
	}
	if perGenre < 1 {
		perGenre = 1
	}
	genres := m.Genres
	if len(genres) > 2 {
		genres = genres[:2]
	}
	for _, genre := range genres {
		found, err := s.source.SearchTracks(ctx, fmt.Sprintf("genre:%q", genre), perGenre)
		if err != nil {
			log.Printf("Genre search error for %q: %v", genre, err)
			continue
		}
		add(found)
	}

	// Strategy 2: fill remaining slots with a mood keyword search. The seeded
	// recommendations endpoint the matching used to lean on was retired, so
	// keyword search stands in for it.
	if len(tracks) < limit {
		keywords := m.Keywords
		if len(keywords) > 3 {
			keywords = keywords[:3]
		}
		query := m.Name + " " + strings.Join(keywords, " ")

		fill := limit
		if fill > 20 {
			fill = 20
		}
		found, err := s.source.SearchTracks(ctx, query, fill)
		if err != nil {
			log.Printf("Keyword search error for %q: %v", m.Name, err)
		} else {
			add(found)
		}
	}

	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks
}

// MultiMoodRecommendations combines tracks across the primary mood and any
// secondary moods: 60% of the limit goes to the primary mood, the remainder
// is split evenly across secondaries. Secondary lookup failures are skipped.
func (s *MatcherService) MultiMoodRecommendations(ctx context.Context, primary string, secondary []string, limit int) (*model.MultiMoodRecommendations, error) {
	primaryLimit := int(float64(limit) * primaryMoodShare)
	if primaryLimit < 1 {
		primaryLimit = 1
	}
	secondaryLimit := limit - primaryLimit

	primaryRecs, err := s.RecommendationsByMood(ctx, primary, primaryLimit)
	if err != nil {
		return nil, err
	}

	allTracks := append([]model.Track(nil), primaryRecs.Tracks...)
	genreSet := make(map[string]bool)
	var genres []string
	addGenres := func(names []string) {
		for _, g := range names {
			if !genreSet[g] {
				genreSet[g] = true
				genres = append(genres, g)
			}
		}
	}
	addGenres(primaryRecs.Genres)

	if len(secondary) > 0 && secondaryLimit > 0 {
		perSecondary := secondaryLimit / len(secondary)
		if perSecondary < 1 {
			perSecondary = 1
		}
		for _, name := range secondary {
			recs, err := s.RecommendationsByMood(ctx, name, perSecondary)
			if err != nil {
				log.Printf("Error getting recommendations for %q: %v", name, err)
				continue
			}
			allTracks = append(allTracks, recs.Tracks...)
			addGenres(recs.Genres)
		}
	}

	if len(allTracks) > limit {
		allTracks = allTracks[:limit]
	}
	if secondary == nil {
		secondary = []string{}
	}

	return &model.MultiMoodRecommendations{
		PrimaryMood:    primary,
		SecondaryMoods: secondary,
		TrackCount:     len(allTracks),
		Tracks:         allTracks,
		Genres:         genres,
	}, nil
}

// PlaylistsByMood searches for existing playlists matching a mood, using the
// mood name plus its top keywords as the query.
func (s *MatcherService) PlaylistsByMood(ctx context.Context, moodName string, limit int) ([]model.Playlist, error) {
	m, ok := mood.Get(moodName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, moodName)
	}

	if s.source == nil || !s.source.IsConfigured() {
		return mockPlaylists(m, limit), nil
	}

	keywords := m.Keywords
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	query := strings.Join(append([]string{m.Name}, keywords...), " ")

	playlists, err := s.source.SearchPlaylists(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("playlist search failed: %w", err)
	}
	return playlists, nil
}

// IsConfigured reports whether a real music source is wired in.
func (s *MatcherService) IsConfigured() bool {
	return s.source != nil && s.source.IsConfigured()
}

// Cache helpers

func (s *MatcherService) cacheKey(moodName string, limit int) string {
	return fmt.Sprintf("recs:%s:%d", moodName, limit)
}

func (s *MatcherService) cacheGet(ctx context.Context, moodName string, limit int) *model.MoodRecommendations {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, s.cacheKey(moodName, limit)).Bytes()
	if err != nil {
		return nil
	}
	var recs model.MoodRecommendations
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil
	}
	return &recs
}

func (s *MatcherService) cacheSet(ctx context.Context, moodName string, limit int, recs *model.MoodRecommendations) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	s.redis.Set(ctx, s.cacheKey(moodName, limit), data, recommendationCacheTTL)
}

// Mock implementations for development/testing

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mockTracks(m mood.Mood, limit int) []model.Track {
	if limit > 10 {
		limit = 10
	}
	tracks := make([]model.Track, 0, limit)
	for i := 0; i < limit; i++ {
		genre := m.Genres[i%len(m.Genres)]
		tracks = append(tracks, model.Track{
			Name:       fmt.Sprintf("%s Session %d", titleCase(m.Name), i+1),
			Artist:     fmt.Sprintf("The %s Collective", titleCase(genre)),
			Album:      fmt.Sprintf("Moods, Vol. %d", i/2+1),
			URL:        fmt.Sprintf("https://open.spotify.com/track/mock-%s-%d", m.Name, i+1),
			DurationMS: 180000 + i*17000,
		})
	}
	return tracks
}

func mockPlaylists(m mood.Mood, limit int) []model.Playlist {
	if limit > 5 {
		limit = 5
	}
	playlists := make([]model.Playlist, 0, limit)
	for i := 0; i < limit; i++ {
		playlists = append(playlists, model.Playlist{
			Name:        fmt.Sprintf("%s Essentials %d", titleCase(m.Name), i+1),
			Description: mood.Description(m.Name),
			URL:         fmt.Sprintf("https://open.spotify.com/playlist/mock-%s-%d", m.Name, i+1),
			TracksTotal: 40 + i*10,
			Owner:       "moodboard",
		})
	}
	return playlists
}
