package canopy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-click", "after-click"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	s := NewSystem()
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if s.PendingScreenshots() != 3 {
		t.Fatalf("queue len = %d, want 3", s.PendingScreenshots())
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" || s.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	s := NewSystem()
	if s.screenshotDir != "screenshots" {
		t.Errorf("screenshotDir = %q, want %q", s.screenshotDir, "screenshots")
	}
}

func TestFlushScreenshotsWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewSystem(WithScreenshotDir(dir))
	c := s.NewCanvas("ui")
	c.Resize(16, 16)
	newButton(t, c.Root(), "box", 0, 0, 8, 8)

	r := NewSoftwareRenderer(16, 16)
	s.Draw(r)
	s.Screenshot("first shot")
	s.Screenshot("second")
	if err := s.FlushScreenshots(r); err != nil {
		t.Fatal(err)
	}
	if s.PendingScreenshots() != 0 {
		t.Error("queue should be empty after flush")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("files = %d, want 2", len(entries))
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")
	if !strings.Contains(joined, "_first_shot.png") || !strings.Contains(joined, "_second.png") {
		t.Errorf("file names = %v", names)
	}
}

func TestFlushScreenshotsEmptyQueue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	s := NewSystem(WithScreenshotDir(dir))
	if err := s.FlushScreenshots(NewSoftwareRenderer(4, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory should not be created for an empty queue")
	}
}
