package projector

import "github.com/kailas-cloud/searchsync/internal/domain"

// Episode projects podcast episodes. Only published episodes with a title are indexed.
type Episode struct{ base }

// NewEpisode creates the episode projector.
func NewEpisode(opts Options) *Episode {
	return &Episode{base{
		typ:        domain.TypeEpisode,
		collection: "episodes",
		fields: []string{
			"id", "status", "title", "slug", "number", "type", "published_at",
			"duration", "audio_url", "description", "image",
		},
		textFields: []string{"title", "description"},
		assetsURL:  opts.AssetsURL,
	}}
}

// IncludeInIndex implements Projector.
func (p *Episode) IncludeInIndex(rec domain.Record) bool {
	return rec.String("status") == "published" && rec.String("title") != ""
}

// StoreFilter reads published episodes only.
func (p *Episode) StoreFilter() map[string]any {
	return map[string]any{"status": map[string]any{"_eq": "published"}}
}

// ProjectAttributes implements Projector.
func (p *Episode) ProjectAttributes(rec domain.Record) []domain.Attributes {
	attrs := domain.Attributes{}
	set(attrs, "title", rec.String("title"))
	set(attrs, "slug", rec.String("slug"))
	if n, ok := rec.Number("number"); ok {
		attrs["number"] = n
	}
	set(attrs, "episode_type", rec.String("type"))
	set(attrs, "published_at", rec.String("published_at"))
	set(attrs, "duration", number(rec.Fields["duration"]))
	set(attrs, "audio_url", rec.String("audio_url"))
	set(attrs, "description", SanitizeDescription(rec.String("description"), DescriptionBudget))
	set(attrs, "image", assetURL(p.assetsURL, rec.Fields["image"]))
	return []domain.Attributes{attrs}
}
