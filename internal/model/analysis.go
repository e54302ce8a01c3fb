package model

// MoodAnalysis is the vision model's verdict on an uploaded image.
type MoodAnalysis struct {
	PrimaryMood    string            `json:"primary_mood"`
	SecondaryMoods []string          `json:"secondary_moods"`
	Confidence     float64           `json:"confidence"`
	Reasoning      string            `json:"reasoning,omitempty"`
	VisualElements map[string]any    `json:"visual_elements,omitempty"`
}

// Track is a single music recommendation.
type Track struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	DurationMS int    `json:"duration_ms"`
	Image      string `json:"image,omitempty"`
}

// Playlist is an existing playlist matching a mood.
type Playlist struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	TracksTotal int    `json:"tracks_total,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Image       string `json:"image,omitempty"`
}

// AudioAttributes are the mood's target audio features.
type AudioAttributes struct {
	Energy     float64 `json:"energy"`
	Valence    float64 `json:"valence"`
	TempoRange [2]int  `json:"tempo_range"`
}

// MoodRecommendations holds the tracks matched to a single mood.
type MoodRecommendations struct {
	Mood            string           `json:"mood"`
	MoodDescription string           `json:"mood_description"`
	TrackCount      int              `json:"track_count"`
	Tracks          []Track          `json:"tracks"`
	Genres          []string         `json:"genres"`
	AudioAttributes *AudioAttributes `json:"audio_attributes,omitempty"`
}

// MultiMoodRecommendations holds tracks combined across a primary mood and
// optional secondary moods.
type MultiMoodRecommendations struct {
	PrimaryMood    string   `json:"primary_mood"`
	SecondaryMoods []string `json:"secondary_moods"`
	TrackCount     int      `json:"track_count"`
	Tracks         []Track  `json:"tracks"`
	Genres         []string `json:"genres"`
}

// AnalyzeResponse is the full payload returned by POST /analyze.
type AnalyzeResponse struct {
	MoodAnalysis         MoodAnalysis             `json:"mood_analysis"`
	MusicRecommendations MultiMoodRecommendations `json:"music_recommendations"`
	Playlists            []Playlist               `json:"playlists,omitempty"`
}

// MoodInfo is a catalog entry as exposed by GET /moods.
type MoodInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Energy      float64  `json:"energy"`
	Valence     float64  `json:"valence"`
	Genres      []string `json:"genres"`
	Keywords    []string `json:"keywords"`
}

// MoodsResponse is the payload of GET /moods.
type MoodsResponse struct {
	Moods []MoodInfo `json:"moods"`
}

// PlaylistsResponse is the payload of GET /playlists/:mood.
type PlaylistsResponse struct {
	Mood      string     `json:"mood"`
	Playlists []Playlist `json:"playlists"`
}

// AnalyzeParams are the validated query parameters of the analyze endpoints.
type AnalyzeParams struct {
	TrackLimit       int  `validate:"min=1,max=100"`
	IncludePlaylists bool
}

// DefaultTrackLimit is used when track_limit is absent.
const DefaultTrackLimit = 20
