package storage

import "testing"

func TestNewWithoutConfigReturnsNil(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "images", "")
	if err != nil || c != nil {
		t.Errorf("New unconfigured = %v, %v; want nil, nil", c, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://s3.local", "us-east-1", "ak", "sk", "", ""); err == nil {
		t.Error("expected error for missing bucket")
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	pathStyle, err := New("http://s3.local/", "us-east-1", "ak", "sk", "images", "")
	if err != nil {
		t.Fatal(err)
	}
	cdn, err := New("http://s3.local", "us-east-1", "ak", "sk", "images", "https://cdn.example.com/")
	if err != nil {
		t.Fatal(err)
	}

	const key = "projects/1700000000000-abc.png"

	if got := pathStyle.FileURL(key); got != "http://s3.local/images/"+key {
		t.Errorf("path-style FileURL = %q", got)
	}
	if got := cdn.FileURL(key); got != "https://cdn.example.com/"+key {
		t.Errorf("cdn FileURL = %q", got)
	}

	tests := []struct {
		name   string
		client *Client
		ref    string
		want   string
		ok     bool
	}{
		{"path-style url", pathStyle, "http://s3.local/images/" + key, key, true},
		{"cdn url", cdn, "https://cdn.example.com/" + key, key, true},
		{"endpoint url on cdn client", cdn, "http://s3.local/images/" + key, key, true},
		{"bare key", pathStyle, key, key, true},
		{"leading slash", pathStyle, "/" + key, key, true},
		{"foreign url", pathStyle, "https://elsewhere.com/" + key, "", false},
		{"empty", pathStyle, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.client.ExtractKey(tt.ref)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExtractKey(%q) = %q, %v; want %q, %v", tt.ref, got, ok, tt.want, tt.ok)
			}
		})
	}
}
