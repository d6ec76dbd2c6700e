package assets

import "sort"

// Resolver tries a custom directory first and falls back to the embedded
// assets, but only when the custom asset is missing. Validation and I/O
// errors from the custom loader are returned as is.
type Resolver struct {
	custom   Loader
	embedded Loader
}

var _ Loader = (*Resolver)(nil)

// NewResolver returns an embedded-only resolver when customBasePath is empty.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) { return l.LoadStyle(name) })
}

func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) { return l.LoadTemplate(name) })
}

// Styles merges custom and embedded style names without duplicates.
func (r *Resolver) Styles() []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range []Loader{r.custom, r.embedded} {
		if l == nil {
			continue
		}
		for _, n := range l.Styles() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *Resolver) loadWithFallback(load func(Loader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return load(r.embedded)
}
