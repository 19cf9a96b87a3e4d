package projector

import "github.com/kailas-cloud/searchsync/internal/domain"

// DailyPick projects the links hosts and guests recommend on air.
type DailyPick struct{ base }

// NewDailyPick creates the daily-pick projector.
func NewDailyPick(opts Options) *DailyPick {
	return &DailyPick{base{
		typ:        domain.TypeDailyPick,
		collection: "picks",
		fields: []string{
			"id", "title", "url", "description", "picked_at", "image", "person.id", "person.name",
		},
		textFields: []string{"title", "description"},
		assetsURL:  opts.AssetsURL,
	}}
}

// IncludeInIndex implements Projector.
func (p *DailyPick) IncludeInIndex(rec domain.Record) bool {
	return rec.String("title") != "" && rec.String("url") != ""
}

// ProjectAttributes implements Projector.
func (p *DailyPick) ProjectAttributes(rec domain.Record) []domain.Attributes {
	attrs := domain.Attributes{}
	set(attrs, "title", rec.String("title"))
	set(attrs, "url", rec.String("url"))
	set(attrs, "description", PlainText(rec.String("description"), DescriptionBudget))
	set(attrs, "picked_at", rec.String("picked_at"))
	set(attrs, "picked_by", domain.StringOf(rec.Object("person")["name"]))
	set(attrs, "image", assetURL(p.assetsURL, rec.Fields["image"]))
	return []domain.Attributes{attrs}
}
