package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zmb3/spotify/v2"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/config"
)

func TestSpotifyClient_Unconfigured(t *testing.T) {
	c := NewSpotifyClient(&config.SpotifyConfig{})
	assert.False(t, c.IsConfigured())

	c = NewSpotifyClient(&config.SpotifyConfig{ClientID: "id", ClientSecret: "secret"})
	assert.True(t, c.IsConfigured())
}

func TestSpotifyClient_SearchWithoutCredentials(t *testing.T) {
	c := NewSpotifyClient(&config.SpotifyConfig{})

	_, err := c.SearchTracks(context.Background(), "calm ambient", 5)
	assert.ErrorIs(t, err, errSpotifyNotConfigured)

	_, err = c.SearchPlaylists(context.Background(), "calm mood", 5)
	assert.ErrorIs(t, err, errSpotifyNotConfigured)
}

func TestFormatTrack(t *testing.T) {
	full := spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			Name: "Weightless",
			Artists: []spotify.SimpleArtist{
				{Name: "Marconi Union"},
				{Name: "Brian Eno"},
			},
			Duration:     480000,
			PreviewURL:   "https://p.scdn.co/mp3-preview/x",
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/x"},
		},
		Album: spotify.SimpleAlbum{
			Name: "Ambient Transmissions",
			Images: []spotify.Image{
				{URL: "https://i.scdn.co/image/x"},
			},
		},
	}

	track := formatTrack(full)
	assert.Equal(t, "Weightless", track.Name)
	assert.Equal(t, "Marconi Union, Brian Eno", track.Artist)
	assert.Equal(t, "Ambient Transmissions", track.Album)
	assert.Equal(t, "https://open.spotify.com/track/x", track.URL)
	assert.Equal(t, "https://p.scdn.co/mp3-preview/x", track.PreviewURL)
	assert.Equal(t, 480000, track.DurationMS)
	assert.Equal(t, "https://i.scdn.co/image/x", track.Image)
}

func TestFormatTrack_NoAlbumArt(t *testing.T) {
	track := formatTrack(spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{Name: "Demo"},
	})
	assert.Empty(t, track.Image)
	assert.Empty(t, track.Artist)
}
