package assets_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/assets"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"static/assets/resume.png":       {Data: []byte("png")},
		"static/assets/Website.JPG":      {Data: []byte("jpg")},
		"static/assets/dev.svg":          {Data: []byte("<svg/>")},
		"static/assets/photo.jpeg":       {Data: []byte("jpeg")},
		"static/assets/notes.txt":        {Data: []byte("ignored")},
		"static/assets/nested/inner.png": {Data: []byte("ignored")},
		"static/css/site.css":            {Data: []byte("body{}")},
	}
}

func TestScan(t *testing.T) {
	reg, err := assets.Scan(testFS(), "static/assets", "/static/assets/")
	require.NoError(t, err)

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, []string{"Website.JPG", "dev.svg", "photo.jpeg", "resume.png"}, reg.Names())
	url, ok := reg.Resolve("Website.JPG")
	assert.True(t, ok)
	assert.Equal(t, "/static/assets/Website.JPG", url)
}

func TestResolve(t *testing.T) {
	reg, err := assets.Scan(testFS(), "static/assets", "/static/assets")
	require.NoError(t, err)

	tests := []struct {
		name     string
		filename string
		wantURL  string
		wantOK   bool
	}{
		{"present", "resume.png", "/static/assets/resume.png", true},
		{"absent", "x.png", "", false},
		{"case sensitive", "RESUME.png", "", false},
		{"non-image not registered", "notes.txt", "", false},
		{"nested not registered", "inner.png", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := reg.Resolve(tt.filename)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestScan_MissingDir(t *testing.T) {
	_, err := assets.Scan(fstest.MapFS{}, "static/assets", "/static/assets")
	assert.Error(t, err)
}

func TestNilRegistry(t *testing.T) {
	var reg *assets.Registry
	_, ok := reg.Resolve("a.png")
	assert.False(t, ok)
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Names())
}
