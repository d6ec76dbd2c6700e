package ebookgen

import (
	"slices"
	"time"
)

// ChapterPlaceholder is the content of a chapter whose generation failed.
const ChapterPlaceholder = "*This chapter could not be generated. Try generating the ebook again.*"

// OutlineChapter is one chapter entry of an outline.
type OutlineChapter struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// Outline is the model-generated skeleton of an ebook.
type Outline struct {
	Title    string           `json:"title"`
	Chapters []OutlineChapter `json:"chapters"`
}

// Chapter is an outline entry plus its generated Markdown content.
type Chapter struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
	Content  string   `json:"content"`
	Failed   bool     `json:"failed,omitempty"` // Content is ChapterPlaceholder
}

// Ebook is a fully generated book. It only exists once every chapter resolved.
type Ebook struct {
	Title    string    `json:"title"`
	Topic    string    `json:"topic"`
	Chapters []Chapter `json:"chapters"`
}

// Clone returns a deep copy of e.
func (e *Ebook) Clone() *Ebook {
	if e == nil {
		return nil
	}
	c := &Ebook{Title: e.Title, Topic: e.Topic, Chapters: make([]Chapter, len(e.Chapters))}
	for i, ch := range e.Chapters {
		ch.Sections = slices.Clone(ch.Sections)
		c.Chapters[i] = ch
	}
	return c
}

// FailedChapters counts chapters that carry the placeholder.
func (e *Ebook) FailedChapters() int {
	n := 0
	for _, ch := range e.Chapters {
		if ch.Failed {
			n++
		}
	}
	return n
}

// Progress reports how far a run is. Current grows from 0 to Total.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// State is the generator's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateCompleted  State = "completed"
	StateError      State = "error"
	StateExporting  State = "exporting"
)

// Busy reports whether a run or export is in flight.
func (s State) Busy() bool {
	return s == StateGenerating || s == StateExporting
}

// Snapshot is an immutable copy of the generator state handed to observers.
type Snapshot struct {
	RunID      string    `json:"runId,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	State      State     `json:"state"`
	Progress   Progress  `json:"progress"`
	Err        string    `json:"error,omitempty"`
	Ebook      *Ebook    `json:"ebook,omitempty"`
	ExportPath string    `json:"exportPath,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (s Snapshot) clone() Snapshot {
	s.Ebook = s.Ebook.Clone()
	return s
}
