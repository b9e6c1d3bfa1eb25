package media

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		want        error
	}{
		{"png", "image/png", 1024, nil},
		{"exactly max", "image/jpeg", MaxImageSize, nil},
		{"one byte over", "image/jpeg", MaxImageSize + 1, ErrTooLarge},
		{"uppercase type", "IMAGE/WEBP", 10, nil},
		{"pdf", "application/pdf", 10, ErrNotImage},
		{"empty type", "", 10, ErrNotImage},
		{"empty file", "image/gif", 0, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateImage(tt.contentType, tt.size); !errors.Is(err, tt.want) {
				t.Errorf("ValidateImage(%q, %d) = %v, want %v", tt.contentType, tt.size, err, tt.want)
			}
		})
	}
}

func TestFolder(t *testing.T) {
	tests := map[string]string{
		"projects":   "projects",
		" Skills ":   "skills",
		"":           DefaultFolder,
		"../etc":     DefaultFolder,
		"a/b":        DefaultFolder,
		"journey_v2": "journey_v2",
	}
	for in, want := range tests {
		if got := Folder(in); got != want {
			t.Errorf("Folder(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	key := ObjectKey("projects", "Screen Shot.PNG", now)

	re := regexp.MustCompile(`^projects/1700000000123-[0-9a-f-]{36}\.png$`)
	if !re.MatchString(key) {
		t.Errorf("ObjectKey = %q", key)
	}

	if other := ObjectKey("projects", "Screen Shot.PNG", now); other == key {
		t.Error("keys for the same file and instant must differ")
	}

	if key := ObjectKey("", "noext", now); !strings.HasPrefix(key, DefaultFolder+"/") || strings.Contains(key, ".") {
		t.Errorf("ObjectKey without folder or ext = %q", key)
	}
}
