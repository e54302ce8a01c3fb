package e2e

import (
	"net/http"
	"testing"
)

func TestAnalyze_Success(t *testing.T) {
	ta := setupApp(t)

	req := createImageRequest(t, "/analyze", "sunset.png", "image/png", pngBytes())
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)

	analysis, ok := body["mood_analysis"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'mood_analysis' object in response")
	}
	if analysis["primary_mood"] != "calm" {
		t.Errorf("expected primary_mood 'calm', got %v", analysis["primary_mood"])
	}

	recs, ok := body["music_recommendations"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'music_recommendations' object in response")
	}
	tracks, ok := recs["tracks"].([]interface{})
	if !ok || len(tracks) == 0 {
		t.Fatalf("expected non-empty tracks, got %v", recs["tracks"])
	}

	// Playlists were not requested
	if _, ok := body["playlists"]; ok {
		t.Error("expected no 'playlists' field without include_playlists")
	}
}

func TestAnalyze_WithPlaylists(t *testing.T) {
	ta := setupApp(t)

	req := createImageRequest(t, "/analyze?include_playlists=true", "sunset.png", "image/png", pngBytes())
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)
	playlists, ok := body["playlists"].([]interface{})
	if !ok || len(playlists) == 0 {
		t.Fatalf("expected non-empty playlists, got %v", body["playlists"])
	}
}

func TestAnalyze_TrackLimitRespected(t *testing.T) {
	ta := setupApp(t)

	req := createImageRequest(t, "/analyze?track_limit=4", "sunset.png", "image/png", pngBytes())
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	body := parseJSON(t, resp)
	recs := body["music_recommendations"].(map[string]interface{})
	tracks := recs["tracks"].([]interface{})
	if len(tracks) > 4 {
		t.Errorf("expected at most 4 tracks, got %d", len(tracks))
	}
}

func TestAnalyze_InvalidTrackLimit(t *testing.T) {
	ta := setupApp(t)

	for _, path := range []string{"/analyze?track_limit=0", "/analyze?track_limit=101"} {
		req := createImageRequest(t, path, "sunset.png", "image/png", pngBytes())
		resp, err := ta.app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		assertStatus(t, resp, http.StatusBadRequest)

		body := parseJSON(t, resp)
		errObj, ok := body["error"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected error envelope for %s, got %v", path, body)
		}
		if errObj["code"] != "VALIDATION_ERROR" {
			t.Errorf("expected VALIDATION_ERROR code for %s, got %v", path, errObj["code"])
		}
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/analyze", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}
