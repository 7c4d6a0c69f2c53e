package generation

import (
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFormat string
		wantData   string
		shouldErr  bool
	}{
		{
			name:       "PNG data URL",
			input:      "data:image/png;base64,aGVsbG8=",
			wantFormat: "png",
			wantData:   "hello",
		},
		{
			name:       "JPEG data URL",
			input:      "data:image/jpeg;base64,aGVsbG8=",
			wantFormat: "jpeg",
			wantData:   "hello",
		},
		{
			name:       "Bare base64 defaults to png",
			input:      "aGVsbG8=",
			wantFormat: "png",
			wantData:   "hello",
		},
		{
			name:      "Data URL without comma",
			input:     "data:image/png;base64",
			shouldErr: true,
		},
		{
			name:      "Invalid base64",
			input:     "not valid base64!!",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, data, err := decodeDataURL(tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
			if string(data) != tt.wantData {
				t.Errorf("data = %q, want %q", data, tt.wantData)
			}
		})
	}
}

func TestExtensionForMIME(t *testing.T) {
	cases := map[string]string{
		"image/png":       ".png",
		"image/jpeg":      ".jpg",
		"image/webp":      ".webp",
		"video/mp4":       ".mp4",
		"application/xyz": ".bin",
	}
	for mime, want := range cases {
		if got := ExtensionForMIME(mime); got != want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestBuildImagePrompt(t *testing.T) {
	got := buildImagePrompt("a fox", "16:9", "forest")
	if !strings.HasPrefix(got, "a fox") {
		t.Errorf("prompt text must lead: %q", got)
	}
	if !strings.Contains(got, "forest") || !strings.Contains(got, "16:9") {
		t.Errorf("style and aspect ratio missing from %q", got)
	}
	if plain := buildImagePrompt("a fox", "", ""); plain != "a fox" {
		t.Errorf("bare prompt must pass through untouched, got %q", plain)
	}
}
