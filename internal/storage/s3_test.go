package storage

import "testing"

func testClient() *Client {
	return &Client{
		bucket:    "fstop-media",
		endpoint:  "https://s3.example.com",
		publicURL: "https://cdn.example.com",
	}
}

func TestFileURL(t *testing.T) {
	c := testClient()
	if got := c.FileURL("photos/abc.jpg"); got != "https://cdn.example.com/photos/abc.jpg" {
		t.Errorf("FileURL with CDN: got %q", got)
	}

	c.publicURL = ""
	if got := c.FileURL("photos/abc.jpg"); got != "https://s3.example.com/fstop-media/photos/abc.jpg" {
		t.Errorf("FileURL path-style: got %q", got)
	}
}

func TestExtractKey(t *testing.T) {
	c := testClient()

	key, ok := c.ExtractKey("https://cdn.example.com/photos/abc.jpg")
	if !ok || key != "photos/abc.jpg" {
		t.Errorf("CDN URL: got (%q, %v)", key, ok)
	}

	key, ok = c.ExtractKey("https://s3.example.com/fstop-media/photos/abc.jpg")
	if !ok || key != "photos/abc.jpg" {
		t.Errorf("path-style URL: got (%q, %v)", key, ok)
	}

	if _, ok := c.ExtractKey("https://elsewhere.example.com/photos/abc.jpg"); ok {
		t.Error("foreign URL should not extract")
	}
}

func TestNewDisabledWithoutCredentials(t *testing.T) {
	c, err := New("", "eu-central", "", "", "bucket", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when endpoint and credentials are empty")
	}
}
