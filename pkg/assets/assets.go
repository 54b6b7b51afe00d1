// Package assets holds the texture overlays and fonts a canvas may reference.
//
// A [Registry] is built once at startup from configuration and passed to
// whatever renders canvases. Files are read and encoded when they are
// registered, so rendering never touches the filesystem and there is no
// package-level cache to invalidate.
package assets

import (
	"embed"
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Kind classifies an asset.
type Kind string

const (
	KindTexture Kind = "texture"
	KindFont    Kind = "font"
)

//go:embed builtin/*.svg
var builtinFS embed.FS

// Asset is one registered file or remote reference.
type Asset struct {
	Name      string
	Kind      Kind
	Path      string // local file; mutually exclusive with URL
	URL       string // remote href, used as-is
	MediaType string

	data []byte
}

// Data returns the file contents. Remote assets have none.
func (a Asset) Data() []byte { return a.data }

// Registry maps asset names to loaded assets.
type Registry struct {
	mu     sync.RWMutex
	assets map[string]*entry
}

type entry struct {
	Asset
	once    sync.Once
	dataURI string
}

// NewRegistry returns a registry holding the built-in textures ("grain" and
// "dots").
func NewRegistry() *Registry {
	r := &Registry{assets: make(map[string]*entry)}
	files, _ := builtinFS.ReadDir("builtin")
	for _, f := range files {
		data, err := builtinFS.ReadFile("builtin/" + f.Name())
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		r.assets[name] = &entry{Asset: Asset{
			Name:      name,
			Kind:      KindTexture,
			MediaType: "image/svg+xml",
			data:      data,
		}}
	}
	return r
}

// Register loads a and adds it under a.Name. Relative paths resolve against
// baseDir. Registering a name twice is an error.
func (r *Registry) Register(a Asset, baseDir string) error {
	if err := errors.ValidateShowcaseName(a.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "asset name %q", a.Name)
	}
	switch a.Kind {
	case KindTexture, KindFont:
	case "":
		a.Kind = KindTexture
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "asset %s: unknown kind %q", a.Name, a.Kind)
	}
	switch {
	case a.Path != "" && a.URL != "":
		return errors.New(errors.ErrCodeInvalidConfig, "asset %s: set path or url, not both", a.Name)
	case a.URL != "":
		if err := errors.ValidateURL(a.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "asset %s", a.Name)
		}
		if a.Kind == KindFont {
			return errors.New(errors.ErrCodeInvalidConfig, "asset %s: fonts must be local files", a.Name)
		}
	case a.Path != "":
		path := a.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "asset %s: read %s", a.Name, path)
		}
		a.Path, a.data = path, data
		if a.MediaType == "" {
			a.MediaType = mediaType(path, data)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "asset %s: path or url is required", a.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.assets[a.Name]; exists {
		return errors.New(errors.ErrCodeInvalidConfig, "asset %s is already registered", a.Name)
	}
	r.assets[a.Name] = &entry{Asset: a}
	return nil
}

func mediaType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// Get returns the asset registered under name.
func (r *Registry) Get(name string) (Asset, error) {
	e, err := r.lookup(name)
	if err != nil {
		return Asset{}, err
	}
	return e.Asset, nil
}

func (r *Registry) lookup(name string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.assets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "asset %q is not registered", name)
	}
	return e, nil
}

// Href returns a value usable as an SVG href: the URL for remote assets and
// a base64 data URI for local ones. The data URI is computed once.
func (r *Registry) Href(name string) (string, error) {
	e, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	if e.URL != "" {
		return e.URL, nil
	}
	e.once.Do(func() {
		e.dataURI = "data:" + e.MediaType + ";base64," + base64.StdEncoding.EncodeToString(e.data)
	})
	return e.dataURI, nil
}

// FontPath returns the file path of a font asset.
func (r *Registry) FontPath(name string) (string, error) {
	e, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	if e.Kind != KindFont {
		return "", errors.New(errors.ErrCodeInvalidConfig, "asset %s is a %s, not a font", name, e.Kind)
	}
	return e.Path, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.assets))
	for n := range r.assets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
