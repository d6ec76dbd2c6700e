package provider

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/alnah/go-ebookgen"
)

// DefaultCacheTTL keeps results for a working day.
const DefaultCacheTTL = 24 * time.Hour

// CachingProvider memoises successful outlines and chapters of another
// provider in memory. Failures are never cached, so a retry reaches the
// model again.
type CachingProvider struct {
	next  ebookgen.ContentProvider
	cache *cache.Cache

	mu      sync.Mutex
	lastErr string
}

var _ ebookgen.ContentProvider = (*CachingProvider)(nil)

// NewCachingProvider wraps next. A non-positive ttl keeps entries until the
// process exits.
func NewCachingProvider(next ebookgen.ContentProvider, ttl time.Duration) *CachingProvider {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, min(ttl, time.Hour)
	}
	return &CachingProvider{
		next:  next,
		cache: cache.New(expiration, cleanup),
	}
}

func (c *CachingProvider) Outline(ctx context.Context, topic string) (*ebookgen.Outline, error) {
	key := "outline\x00" + normalizeTopic(topic)
	if v, ok := c.cache.Get(key); ok {
		c.setLastError("")
		return cloneOutline(v.(*ebookgen.Outline)), nil
	}

	outline, err := c.next.Outline(ctx, topic)
	c.setLastError(c.next.LastError())
	if err != nil || outline == nil || len(outline.Chapters) == 0 {
		return outline, err
	}

	c.cache.SetDefault(key, cloneOutline(outline))
	return outline, nil
}

func (c *CachingProvider) ChapterContent(ctx context.Context, topic, chapterTitle string, sections []string) (string, error) {
	key := strings.Join([]string{
		"chapter", normalizeTopic(topic), chapterTitle, strings.Join(sections, "\x1f"),
	}, "\x00")
	if v, ok := c.cache.Get(key); ok {
		c.setLastError("")
		return v.(string), nil
	}

	content, err := c.next.ChapterContent(ctx, topic, chapterTitle, sections)
	c.setLastError(c.next.LastError())
	if err != nil || strings.TrimSpace(content) == "" {
		return content, err
	}

	c.cache.SetDefault(key, content)
	return content, nil
}

func (c *CachingProvider) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Len returns the number of cached entries, expired ones included until
// the next cleanup.
func (c *CachingProvider) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached entry.
func (c *CachingProvider) Flush() {
	c.cache.Flush()
}

func (c *CachingProvider) setLastError(s string) {
	c.mu.Lock()
	c.lastErr = s
	c.mu.Unlock()
}

// normalizeTopic makes "Bread  Baking " and "bread baking" share entries.
func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}

func cloneOutline(o *ebookgen.Outline) *ebookgen.Outline {
	c := &ebookgen.Outline{Title: o.Title, Chapters: make([]ebookgen.OutlineChapter, len(o.Chapters))}
	for i, ch := range o.Chapters {
		c.Chapters[i] = ebookgen.OutlineChapter{Title: ch.Title, Sections: slices.Clone(ch.Sections)}
	}
	return c
}
