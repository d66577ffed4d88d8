package models

import (
	"fmt"
	"sort"
	"strings"
)

// Category selects the prompt template, output schema and defaults for a generation.
type Category string

const (
	CategoryHashtags        Category = "hashtags"
	CategoryCaptions        Category = "captions"
	CategoryScripts         Category = "scripts"
	CategorySongs           Category = "songs"
	CategoryVideoComparison Category = "video-comparison"
)

// ContentCategories returns the four content kinds in dashboard order.
func ContentCategories() []Category {
	return []Category{CategoryHashtags, CategoryCaptions, CategoryScripts, CategorySongs}
}

// IsContent reports whether c is one of the content kinds (not video comparison).
func (c Category) IsContent() bool {
	switch c {
	case CategoryHashtags, CategoryCaptions, CategoryScripts, CategorySongs:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory maps a dashboard content type name to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryHashtags, CategoryCaptions, CategoryScripts, CategorySongs, CategoryVideoComparison:
		return c, nil
	}
	return "", fmt.Errorf("unknown content category %q", s)
}

// GenerationRequest is one user action on the content generation page.
type GenerationRequest struct {
	Category Category `json:"content_type" yaml:"category"`
	Prompt   string   `json:"prompt" yaml:"prompt"`
}

type Hashtags struct {
	Trending []string `json:"trending"`
	Niche    []string `json:"niche"`
	LongTail []string `json:"long_tail"`
}

type Captions struct {
	Hook        string `json:"hook"`
	MainContent string `json:"main_content"`
	CTA         string `json:"cta"`
}

type Scripts struct {
	Hook  string   `json:"hook"`
	Steps []string `json:"steps"`
	Outro string   `json:"outro"`
}

type Songs struct {
	Trending  []string `json:"trending"`
	MoodBased []string `json:"mood_based"`
	Genre     []string `json:"genre"`
}

// GeneratedContent is a tagged union: Category names the single non-nil variant.
// It marshals to the wrapped shape, e.g. {"hashtags": {...}}.
type GeneratedContent struct {
	Category Category  `json:"-"`
	Hashtags *Hashtags `json:"hashtags,omitempty"`
	Captions *Captions `json:"captions,omitempty"`
	Scripts  *Scripts  `json:"scripts,omitempty"`
	Songs    *Songs    `json:"songs,omitempty"`
}

// Source says where a validated leaf value came from.
type Source string

const (
	SourceProvided  Source = "provided"
	SourceDefaulted Source = "defaulted"
)

// Provenance maps dotted field paths (e.g. "captions.hook") to their Source.
type Provenance map[string]Source

// Defaulted returns the sorted paths that were filled from defaults.
func (p Provenance) Defaulted() []string {
	var out []string
	for path, src := range p {
		if src == SourceDefaulted {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// FullyProvided reports whether the model supplied every field.
func (p Provenance) FullyProvided() bool {
	for _, src := range p {
		if src == SourceDefaulted {
			return false
		}
	}
	return true
}
