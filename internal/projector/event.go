package projector

import "github.com/kailas-cloud/searchsync/internal/domain"

// Event projects live events (meetups, recordings, conferences).
type Event struct{ base }

// NewEvent creates the event projector.
func NewEvent(opts Options) *Event {
	return &Event{base{
		typ:        domain.TypeEvent,
		collection: "events",
		fields: []string{
			"id", "title", "slug", "start_date", "end_date", "location", "url", "description", "image",
		},
		textFields: []string{"title", "description", "location"},
		assetsURL:  opts.AssetsURL,
	}}
}

// IncludeInIndex implements Projector.
func (p *Event) IncludeInIndex(rec domain.Record) bool {
	return rec.String("title") != "" && rec.String("start_date") != ""
}

// ProjectAttributes implements Projector.
func (p *Event) ProjectAttributes(rec domain.Record) []domain.Attributes {
	attrs := domain.Attributes{}
	set(attrs, "title", rec.String("title"))
	set(attrs, "slug", rec.String("slug"))
	set(attrs, "start_date", rec.String("start_date"))
	set(attrs, "end_date", rec.String("end_date"))
	set(attrs, "location", rec.String("location"))
	set(attrs, "url", rec.String("url"))
	set(attrs, "description", PlainText(rec.String("description"), DescriptionBudget))
	set(attrs, "image", assetURL(p.assetsURL, rec.Fields["image"]))
	return []domain.Attributes{attrs}
}
