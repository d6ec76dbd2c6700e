// Package pipeline holds the string-level stages around rendering:
//   - Markdown normalisation of model replies before they are stored
//   - CSS injection as a sanitized <style> block
//   - numbered table of contents built from chapter heading IDs
//
// Markdown rendering lives in internal/markdown and PDF printing in the
// root ebookgen package.
package pipeline
