package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anaailiesei/EchoWave/pkg/models"
)

func TestIsAudioFile(t *testing.T) {
	e := NewExtractor([]string{".mp3", ".flac"})

	cases := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.wav", false},
		{"notes.txt", false},
		{"song", false},
	}
	for _, c := range cases {
		if got := e.IsAudioFile(c.path); got != c.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestExtractFromFileFallsBackToFilename(t *testing.T) {
	e := NewExtractor([]string{".mp3"})
	dir := t.TempDir()
	path := filepath.Join(dir, "Morning Drive.mp3")
	// Not a valid mp3; both tag reading and duration must degrade gracefully.
	if err := os.WriteFile(path, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	track, err := e.ExtractFromFile(path)
	if err != nil {
		t.Fatalf("ExtractFromFile() error = %v", err)
	}
	if track.Name != "Morning Drive" {
		t.Errorf("Name = %q, want filename without extension", track.Name)
	}
	if track.Owner != "Unknown Artist" {
		t.Errorf("Owner = %q, want Unknown Artist", track.Owner)
	}
	if track.Kind != models.KindSong {
		t.Errorf("Kind = %v, want KindSong", track.Kind)
	}
}

func TestExtractFromFileMissing(t *testing.T) {
	e := NewExtractor([]string{".mp3"})
	if _, err := e.ExtractFromFile(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
