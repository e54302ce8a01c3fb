package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/config"
	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
)

// MusicSource abstracts the music catalog the matcher draws from.
type MusicSource interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error)
	SearchPlaylists(ctx context.Context, query string, limit int) ([]model.Playlist, error)
	IsConfigured() bool
}

var errSpotifyNotConfigured = errors.New("spotify credentials not configured")

// SpotifyClient implements MusicSource against the Spotify Web API using the
// client-credentials flow (app token, no user context).
type SpotifyClient struct {
	clientID     string
	clientSecret string
	market       string

	api *spotify.Client
}

// NewSpotifyClient creates a Spotify music source. The underlying oauth2
// TokenSource fetches the app token on first use and refreshes it when it
// expires, so an unconfigured client still constructs cleanly and transient
// token failures are retried on the next call.
func NewSpotifyClient(cfg *config.SpotifyConfig) *SpotifyClient {
	c := &SpotifyClient{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		market:       cfg.Market,
	}
	if c.IsConfigured() {
		creds := &clientcredentials.Config{
			ClientID:     c.clientID,
			ClientSecret: c.clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		c.api = spotify.New(creds.Client(context.Background()))
	}
	return c
}

// SearchTracks runs a track search and maps the results to Track records.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	if c.api == nil {
		return nil, errSpotifyNotConfigured
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(limit), spotify.Market(c.market))
	if err != nil {
		return nil, fmt.Errorf("spotify track search: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]model.Track, 0, len(result.Tracks.Tracks))
	for _, item := range result.Tracks.Tracks {
		tracks = append(tracks, formatTrack(item))
	}
	return tracks, nil
}

// SearchPlaylists runs a playlist search and maps the results to Playlist records.
func (c *SpotifyClient) SearchPlaylists(ctx context.Context, query string, limit int) ([]model.Playlist, error) {
	if c.api == nil {
		return nil, errSpotifyNotConfigured
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify playlist search: %w", err)
	}
	if result.Playlists == nil {
		return nil, nil
	}

	playlists := make([]model.Playlist, 0, len(result.Playlists.Playlists))
	for _, item := range result.Playlists.Playlists {
		if item.Name == "" && item.ID == "" {
			// The search API occasionally pads result pages with nulls.
			continue
		}
		p := model.Playlist{
			Name:        item.Name,
			Description: item.Description,
			URL:         item.ExternalURLs["spotify"],
			TracksTotal: int(item.Tracks.Total),
			Owner:       item.Owner.DisplayName,
		}
		if len(item.Images) > 0 {
			p.Image = item.Images[0].URL
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// IsConfigured returns true if Spotify credentials are present.
func (c *SpotifyClient) IsConfigured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

func formatTrack(t spotify.FullTrack) model.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	track := model.Track{
		Name:       t.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      t.Album.Name,
		URL:        t.ExternalURLs["spotify"],
		PreviewURL: t.PreviewURL,
		DurationMS: int(t.Duration),
	}
	if len(t.Album.Images) > 0 {
		track.Image = t.Album.Images[0].URL
	}
	return track
}
