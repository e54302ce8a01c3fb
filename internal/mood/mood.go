// Package mood holds the static mood catalog that drives both the vision
// prompt and the music matching parameters.
package mood

import (
	"fmt"
	"math"
	"strings"
)

// Mood describes an emotional category and its musical attributes.
type Mood struct {
	Name       string   `json:"name"`
	Energy     float64  `json:"energy"`  // 0.0 to 1.0
	Valence    float64  `json:"valence"` // 0.0 (negative) to 1.0 (positive)
	TempoMin   int      `json:"tempoMin"`
	TempoMax   int      `json:"tempoMax"`
	Genres     []string `json:"genres"`
	Keywords   []string `json:"keywords"`
}

// DefaultMood is used when the vision model returns a label outside the catalog.
const DefaultMood = "calm"

var catalog = []Mood{
	{
		Name:     "calm",
		Energy:   0.2,
		Valence:  0.6,
		TempoMin: 60,
		TempoMax: 90,
		Genres:   []string{"ambient", "chill", "lo-fi", "classical", "acoustic"},
		Keywords: []string{"peaceful", "serene", "tranquil", "relaxing", "soft", "gentle"},
	},
	{
		Name:     "energetic",
		Energy:   0.9,
		Valence:  0.8,
		TempoMin: 120,
		TempoMax: 180,
		Genres:   []string{"edm", "pop", "rock", "electronic", "dance"},
		Keywords: []string{"upbeat", "vibrant", "dynamic", "lively", "fast", "intense"},
	},
	{
		Name:     "romantic",
		Energy:   0.4,
		Valence:  0.7,
		TempoMin: 70,
		TempoMax: 100,
		Genres:   []string{"r&b", "soul", "jazz", "classical", "love songs"},
		Keywords: []string{"love", "passion", "tender", "intimate", "warm", "dreamy"},
	},
	{
		Name:     "dark",
		Energy:   0.6,
		Valence:  0.2,
		TempoMin: 80,
		TempoMax: 120,
		Genres:   []string{"industrial", "metal", "dark ambient", "goth", "techno"},
		Keywords: []string{"mysterious", "ominous", "heavy", "brooding", "shadows", "intense"},
	},
	{
		Name:     "melancholic",
		Energy:   0.3,
		Valence:  0.3,
		TempoMin: 60,
		TempoMax: 85,
		Genres:   []string{"indie", "folk", "blues", "sad", "alternative"},
		Keywords: []string{"sad", "nostalgic", "reflective", "lonely", "wistful", "somber"},
	},
	{
		Name:     "joyful",
		Energy:   0.8,
		Valence:  0.9,
		TempoMin: 110,
		TempoMax: 140,
		Genres:   []string{"pop", "funk", "disco", "happy", "uplifting"},
		Keywords: []string{"happy", "cheerful", "bright", "sunny", "playful", "optimistic"},
	},
	{
		Name:     "mysterious",
		Energy:   0.5,
		Valence:  0.5,
		TempoMin: 70,
		TempoMax: 110,
		Genres:   []string{"ambient", "electronic", "experimental", "cinematic"},
		Keywords: []string{"enigmatic", "atmospheric", "ethereal", "curious", "haunting"},
	},
	{
		Name:     "aggressive",
		Energy:   0.95,
		Valence:  0.3,
		TempoMin: 140,
		TempoMax: 200,
		Genres:   []string{"metal", "hardcore", "punk", "hard rock", "drum and bass"},
		Keywords: []string{"powerful", "fierce", "raw", "angry", "intense", "chaotic"},
	},
	{
		Name:     "dreamy",
		Energy:   0.3,
		Valence:  0.7,
		TempoMin: 70,
		TempoMax: 95,
		Genres:   []string{"ambient", "dream pop", "shoegaze", "indie", "chillwave"},
		Keywords: []string{"floating", "surreal", "hazy", "ethereal", "soft", "otherworldly"},
	},
	{
		Name:     "uplifting",
		Energy:   0.7,
		Valence:  0.85,
		TempoMin: 100,
		TempoMax: 130,
		Genres:   []string{"trance", "progressive", "inspirational", "gospel", "anthemic"},
		Keywords: []string{"inspiring", "hopeful", "motivating", "euphoric", "empowering"},
	},
}

var byName = func() map[string]Mood {
	m := make(map[string]Mood, len(catalog))
	for _, md := range catalog {
		m[md.Name] = md
	}
	return m
}()

// Get returns the mood with the given name (case-insensitive).
func Get(name string) (Mood, bool) {
	m, ok := byName[strings.ToLower(name)]
	return m, ok
}

// All returns every mood in catalog order.
func All() []Mood {
	out := make([]Mood, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns all mood names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// Valid reports whether name is a known mood.
func Valid(name string) bool {
	_, ok := Get(name)
	return ok
}

// Similar returns the moods within threshold of the named mood, measured by
// Euclidean distance in energy/valence space. Unknown names yield nil.
func Similar(name string, threshold float64) []string {
	ref, ok := Get(name)
	if !ok {
		return nil
	}

	var similar []string
	for _, m := range catalog {
		if m.Name == ref.Name {
			continue
		}
		distance := math.Hypot(m.Energy-ref.Energy, m.Valence-ref.Valence)
		if distance <= threshold {
			similar = append(similar, m.Name)
		}
	}
	return similar
}

// Description returns a human-readable summary of a mood.
func Description(name string) string {
	m, ok := Get(name)
	if !ok {
		return "Unknown mood"
	}

	sentiment := "negative"
	if m.Valence > 0.5 {
		sentiment = "positive"
	}

	genres := m.Genres
	if len(genres) > 3 {
		genres = genres[:3]
	}

	return fmt.Sprintf("%s: Energy level %.0f%%, %s sentiment. Associated with %s music.",
		title(m.Name), m.Energy*100, sentiment, strings.Join(genres, ", "))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
