// Package assets provides the CSS styles and the HTML document template used
// to lay out generated ebooks.
//
// # Loaders
//
//	Loader (interface)
//	    ├── EmbeddedLoader    built-in styles and template (go:embed)
//	    ├── FilesystemLoader  user directory on disk
//	    └── Resolver          custom first, embedded on not-found
//
// A custom directory mirrors the embedded layout:
//
//	{base}/
//	├── styles/{name}.css
//	└── templates/{name}.html
//
// Asset names are plain identifiers. FilesystemLoader resolves symlinks and
// refuses paths that leave the base directory.
package assets
