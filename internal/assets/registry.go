// Package assets enumerates the image files available to service records.
package assets

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// imageExts are the file types picked up by Scan.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
}

// Registry maps image filenames to the URLs they are served under. It is
// built once at startup and never changes afterwards.
type Registry struct {
	urls  map[string]string
	names []string
}

// Scan builds a registry from the image files directly inside dir. Each
// entry's URL is urlPrefix joined with the filename. Subdirectories and
// other file types are ignored.
func Scan(fsys fs.FS, dir, urlPrefix string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("scan assets in %s: %w", dir, err)
	}

	prefix := strings.TrimSuffix(urlPrefix, "/")
	r := &Registry{urls: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !imageExts[strings.ToLower(path.Ext(name))] {
			continue
		}
		r.urls[name] = prefix + "/" + name
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	return r, nil
}

// Resolve returns the URL for filename. The lookup is an exact match on the
// filename.
func (r *Registry) Resolve(filename string) (string, bool) {
	if r == nil {
		return "", false
	}
	url, ok := r.urls[filename]
	return url, ok
}

// Names returns every registered filename in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Len returns the number of registered images.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
