package ai

import (
	"creator-stack/internal/models"
)

// FieldKind is the expected JSON type of a schema field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindStringList
	// KindScore is an integer score within [Min, Max].
	KindScore
	// KindCount is a non-negative integer such as a view count.
	KindCount
	// KindRate is a percentage carried as a string; numbers are formatted.
	KindRate
	KindObject
)

// Field declares one schema entry and the value substituted when the model omits it.
type Field struct {
	Name     string
	Kind     FieldKind
	Min, Max int
	Default  any
	Fields   []Field
}

// defaultValue returns a copy of the default so callers can mutate results freely.
func (f Field) defaultValue() any {
	if list, ok := f.Default.([]string); ok {
		return append([]string(nil), list...)
	}
	return f.Default
}

// Schema is the output contract of one category. Wrapped schemas expect their
// fields nested under a key named after the category.
type Schema struct {
	Category models.Category
	Wrapped  bool
	Fields   []Field
}

// FieldNames returns the top-level field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func stringField(name, def string) Field {
	return Field{Name: name, Kind: KindString, Default: def}
}

func listField(name string, def ...string) Field {
	return Field{Name: name, Kind: KindStringList, Default: def}
}

func scoreField(name string, lo, hi, def int) Field {
	return Field{Name: name, Kind: KindScore, Min: lo, Max: hi, Default: def}
}

func tenPoint(name string) Field { return scoreField(name, 1, 10, 5) }

func percent(name string) Field { return scoreField(name, 0, 100, 50) }

var schemas = map[models.Category]Schema{
	models.CategoryHashtags: {
		Category: models.CategoryHashtags,
		Wrapped:  true,
		Fields: []Field{
			listField("trending", "#viral", "#trending", "#fyp"),
			listField("niche", "#content", "#socialmedia"),
			listField("long_tail", "#specificcontent", "#nicheaudience"),
		},
	},
	models.CategoryCaptions: {
		Category: models.CategoryCaptions,
		Wrapped:  true,
		Fields: []Field{
			stringField("hook", "Stop scrolling! Here's what you need to know..."),
			stringField("main_content", "This content will change everything you thought you knew about this topic."),
			stringField("cta", "Save this post and try it today! What's your experience? Comment below! 👇"),
		},
	},
	models.CategoryScripts: {
		Category: models.CategoryScripts,
		Wrapped:  true,
		Fields: []Field{
			stringField("hook", "You've been doing this wrong your entire life"),
			listField("steps",
				"First, start with the basics",
				"Next, build on that foundation",
				"Finally, master the advanced techniques"),
			stringField("outro", "Try this for 7 days and watch what happens!"),
		},
	},
	models.CategorySongs: {
		Category: models.CategorySongs,
		Wrapped:  true,
		Fields: []Field{
			listField("trending", "Popular Song - Artist", "Trending Track - Artist"),
			listField("mood_based", "Upbeat: Energetic Song - Artist", "Chill: Relaxing Track - Artist"),
			listField("genre", "Pop", "Hip-Hop", "Electronic"),
		},
	},
	models.CategoryVideoComparison: {
		Category: models.CategoryVideoComparison,
		Fields: []Field{
			percent("overall_score"),
			{Name: "target_audience", Kind: KindObject, Fields: []Field{
				stringField("primary_age_group", "18-34"),
				{Name: "gender_split", Kind: KindObject, Fields: []Field{
					percent("male"),
					percent("female"),
				}},
				listField("interests", "General"),
			}},
			{Name: "technical_analysis", Kind: KindObject, Fields: []Field{
				tenPoint("video_quality"),
				tenPoint("audio_quality"),
				tenPoint("visual_appeal"),
				tenPoint("editing_quality"),
				tenPoint("lighting"),
				tenPoint("composition"),
			}},
			{Name: "content_strategy", Kind: KindObject, Fields: []Field{
				tenPoint("hook_effectiveness"),
				tenPoint("storytelling"),
				tenPoint("call_to_action"),
				tenPoint("trending_elements"),
				tenPoint("authenticity"),
				tenPoint("emotional_impact"),
			}},
			{Name: "performance_prediction", Kind: KindObject, Fields: []Field{
				{Name: "estimated_views", Kind: KindCount, Default: int64(10000)},
				{Name: "estimated_engagement_rate", Kind: KindRate, Default: "5.0"},
				percent("viral_potential"),
				stringField("optimal_posting_time", "6:00 PM - 9:00 PM"),
				percent("trending_score"),
			}},
			listField("recommendations", "Focus on improving overall content quality"),
			listField("missing_elements", "Basic content elements"),
			stringField("detailed_analysis", "Analysis completed successfully."),
		},
	},
}

// SchemaFor looks up the output schema of a category.
func SchemaFor(category models.Category) (Schema, error) {
	schema, ok := schemas[category]
	if !ok {
		return Schema{}, &ConfigurationError{Field: "category", Reason: "unknown category " + string(category)}
	}
	return schema, nil
}
