// Package render formats analysis results for terminal output. Formatting
// only: missing optional fields are omitted, never an error.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sarabsinghsaluja/moodboard-agent/internal/model"
)

const barWidth = 20

var moodEmoji = map[string]string{
	"calm":        "🌊",
	"energetic":   "⚡",
	"romantic":    "💕",
	"dark":        "🌑",
	"melancholic": "🌧️",
	"joyful":      "🌈",
	"mysterious":  "🔮",
	"aggressive":  "🔥",
	"dreamy":      "☁️",
	"uplifting":   "🌅",
}

// Emoji returns the icon for a mood, falling back to a generic note for
// labels outside the catalog.
func Emoji(mood string) string {
	if e, ok := moodEmoji[strings.ToLower(mood)]; ok {
		return e
	}
	return "🎵"
}

// FormatDuration renders milliseconds as m:ss with zero-padded seconds.
func FormatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ConfidencePercent renders a 0..1 confidence as a whole percentage.
func ConfidencePercent(confidence float64) string {
	return fmt.Sprintf("%.0f%%", confidence*100)
}

// ConfidenceBar renders a text bar whose fill is linear in confidence:
// 0.73 fills 73% of the width.
func ConfidenceBar(confidence float64, width int) string {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	filled := int(confidence * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// Mood writes the detected mood section: emoji, label, confidence bar,
// secondary tags, reasoning and visual elements.
func Mood(w io.Writer, a *model.MoodAnalysis) {
	fmt.Fprintf(w, "%s Mood: %s\n", Emoji(a.PrimaryMood), a.PrimaryMood)
	fmt.Fprintf(w, "   %s %s confidence\n", ConfidenceBar(a.Confidence, barWidth), ConfidencePercent(a.Confidence))
	if len(a.SecondaryMoods) > 0 {
		fmt.Fprintf(w, "   Also feels: %s\n", strings.Join(a.SecondaryMoods, ", "))
	}
	if a.Reasoning != "" {
		fmt.Fprintf(w, "   %s\n", a.Reasoning)
	}
	if len(a.VisualElements) > 0 {
		keys := make([]string, 0, len(a.VisualElements))
		for k := range a.VisualElements {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "   %s: %v\n", k, a.VisualElements[k])
		}
	}
}

// Tracks writes the 1-indexed track list with name, artist, album and
// duration, plus preview and external links when present.
func Tracks(w io.Writer, tracks []model.Track) {
	if len(tracks) == 0 {
		fmt.Fprintln(w, "No tracks found.")
		return
	}
	fmt.Fprintf(w, "\nTracks (%d):\n", len(tracks))
	for i, t := range tracks {
		line := fmt.Sprintf("%3d. %s - %s", i+1, t.Name, t.Artist)
		if t.Album != "" {
			line += " (" + t.Album + ")"
		}
		fmt.Fprintf(w, "%s %s\n", line, FormatDuration(t.DurationMS))
		if t.PreviewURL != "" {
			fmt.Fprintf(w, "     preview: %s\n", t.PreviewURL)
		}
		if t.URL != "" {
			fmt.Fprintf(w, "     %s\n", t.URL)
		}
	}
}

// Playlists writes the playlist list; nothing when empty.
func Playlists(w io.Writer, playlists []model.Playlist) {
	if len(playlists) == 0 {
		return
	}
	fmt.Fprintf(w, "\nPlaylists (%d):\n", len(playlists))
	for i, p := range playlists {
		fmt.Fprintf(w, "%3d. %s (%d tracks) by %s\n", i+1, p.Name, p.TracksTotal, p.Owner)
		if p.Description != "" {
			fmt.Fprintf(w, "     %s\n", p.Description)
		}
		if p.URL != "" {
			fmt.Fprintf(w, "     %s\n", p.URL)
		}
	}
}

// Result writes a complete analysis response.
func Result(w io.Writer, r *model.AnalyzeResponse) {
	Mood(w, &r.MoodAnalysis)
	if len(r.MusicRecommendations.Genres) > 0 {
		fmt.Fprintf(w, "\nGenres: %s\n", strings.Join(r.MusicRecommendations.Genres, ", "))
	}
	Tracks(w, r.MusicRecommendations.Tracks)
	Playlists(w, r.Playlists)
}
