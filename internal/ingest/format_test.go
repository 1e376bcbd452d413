package ingest

import "testing"

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"zero bytes", 0, "0 Bytes"},
		{"under one KB", 500, "500 Bytes"},
		{"exactly one KB", 1024, "1 KB"},
		{"one and a half KB", 1536, "1.5 KB"},
		{"exactly one MB", 1048576, "1 MB"},
		{"ten MB", 10 * 1024 * 1024, "10 MB"},
		{"exactly one GB", 1024 * 1024 * 1024, "1 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFileSize(tt.size); got != tt.want {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{51000, "51,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
