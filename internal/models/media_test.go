package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestMediaTypeFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaType
		ok          bool
	}{
		{"image/jpeg", MediaPhoto, true},
		{"image/png", MediaPhoto, true},
		{"video/mp4", MediaVideo, true},
		{"video/quicktime", MediaVideo, true},
		{"image/gif", MediaPhoto, true},
		{"image/svg+xml", "", false},
		{"image/x-unknown", "", false},
		{"text/html; charset=utf-8", "", false},
		{"application/pdf", "", false},
		{"", "", false},
		{"IMAGE/PNG", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, ok := MediaTypeFromContentType(tt.contentType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("MediaTypeFromContentType(%q) = (%q, %v), want (%q, %v)",
					tt.contentType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtensionFromContentType(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":      ".jpg",
		"image/gif":       ".gif",
		"video/quicktime": ".mov",
		"video/x-msvideo": ".avi",
		"image/svg+xml":   "",
		"text/html":       "",
	}
	for ct, want := range tests {
		if got := ExtensionFromContentType(ct); got != want {
			t.Errorf("ExtensionFromContentType(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestMediaTypeDisplayMedia(t *testing.T) {
	if MediaPhoto.DisplayMedia() != DisplayImage {
		t.Error("photo should display as image")
	}
	if MediaVideo.DisplayMedia() != DisplayVideo {
		t.Error("video should display as video")
	}
}

func TestMediaStatusDecision(t *testing.T) {
	tests := []struct {
		status   MediaStatus
		decision bool
		valid    bool
	}{
		{MediaPending, false, true},
		{MediaApproved, true, true},
		{MediaRejected, true, true},
		{MediaStatus("maybe"), false, false},
		{MediaStatus(""), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsDecision(); got != tt.decision {
				t.Errorf("IsDecision() = %v, want %v", got, tt.decision)
			}
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestInferDisplayMedia(t *testing.T) {
	img, vid, empty := "/a.jpg", "/b.mp4", ""
	tests := []struct {
		name       string
		image, vid *string
		want       DisplayMedia
	}{
		{"image only", &img, nil, DisplayImage},
		{"video only", nil, &vid, DisplayVideo},
		{"both prefers image", &img, &vid, DisplayImage},
		{"neither", nil, nil, DisplayNone},
		{"empty image falls to video", &empty, &vid, DisplayVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDisplayMedia(tt.image, tt.vid); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestOptionalIDUnmarshal verifies absent, null and value are distinguishable.
func TestOptionalIDUnmarshal(t *testing.T) {
	id := uuid.New()

	var absent NomineePatch
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &absent); err != nil {
		t.Fatalf("unmarshal absent: %v", err)
	}
	if absent.Media.Set || absent.Media.Clears() {
		t.Error("absent field should not be set")
	}

	var cleared NomineePatch
	if err := json.Unmarshal([]byte(`{"approved_media_id":null}`), &cleared); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !cleared.Media.Clears() {
		t.Error("explicit null should clear")
	}

	var linked NomineePatch
	if err := json.Unmarshal([]byte(`{"approved_media_id":"`+id.String()+`"}`), &linked); err != nil {
		t.Fatalf("unmarshal id: %v", err)
	}
	if !linked.Media.Set || linked.Media.ID == nil || *linked.Media.ID != id {
		t.Errorf("got %+v, want id %s", linked.Media, id)
	}

	var bad NomineePatch
	if err := json.Unmarshal([]byte(`{"approved_media_id":"not-a-uuid"}`), &bad); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestClientMetaNormalized(t *testing.T) {
	got := ClientMeta{}.Normalized()
	if got.IPAddress != "unknown" || got.UserAgent != "unknown" {
		t.Errorf("got %+v", got)
	}
	kept := ClientMeta{IPAddress: "10.0.0.1", UserAgent: "curl"}.Normalized()
	if kept.IPAddress != "10.0.0.1" || kept.UserAgent != "curl" {
		t.Errorf("got %+v", kept)
	}
}
