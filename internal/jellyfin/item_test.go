package jellyfin

import "testing"

func TestItemVideoFile(t *testing.T) {
	it := Item{
		ID:           "abc",
		Container:    "mp4",
		RuntimeTicks: 40_000_000,
		Width:        1280,
		Height:       720,
		FrameRate:    25,
	}
	v, err := it.VideoFile()
	if err != nil {
		t.Fatalf("VideoFile: %v", err)
	}
	if v.DurationSeconds != 4 || v.FrameCount != 100 || v.MediaType != "video/mp4" {
		t.Errorf("VideoFile() = %+v", v)
	}

	it.FrameRate = 0
	if _, err := it.VideoFile(); err == nil {
		t.Error("VideoFile accepted an item without a frame rate")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"media.local:8096", "https://media.local:8096"},
		{" http://media.local/ ", "http://media.local"},
		{"https://x.example/jf/", "https://x.example/jf"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStreamURL(t *testing.T) {
	c := NewClient("http://media.local")
	c.SetToken("tok", "user")
	want := "http://media.local/Videos/a%20b/stream?Static=true&api_key=tok"
	if got := c.GetStreamURL("a b"); got != want {
		t.Errorf("GetStreamURL = %q, want %q", got, want)
	}
	if SecondsToTicks(1.5) != 15_000_000 {
		t.Errorf("SecondsToTicks(1.5) = %d", SecondsToTicks(1.5))
	}
}
