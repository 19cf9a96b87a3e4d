package projector

import "github.com/kailas-cloud/searchsync/internal/domain"

// Person projects hosts and guests.
type Person struct{ base }

// NewPerson creates the person projector.
func NewPerson(opts Options) *Person {
	return &Person{base{
		typ:        domain.TypePerson,
		collection: "people",
		fields:     []string{"id", "name", "slug", "role", "bio", "twitter", "image"},
		textFields: []string{"name", "bio"},
		assetsURL:  opts.AssetsURL,
	}}
}

// IncludeInIndex implements Projector.
func (p *Person) IncludeInIndex(rec domain.Record) bool {
	return rec.String("name") != ""
}

// ProjectAttributes implements Projector.
func (p *Person) ProjectAttributes(rec domain.Record) []domain.Attributes {
	attrs := domain.Attributes{}
	set(attrs, "name", rec.String("name"))
	set(attrs, "slug", rec.String("slug"))
	set(attrs, "role", rec.String("role"))
	set(attrs, "bio", PlainText(rec.String("bio"), DescriptionBudget))
	set(attrs, "twitter", rec.String("twitter"))
	set(attrs, "image", assetURL(p.assetsURL, rec.Fields["image"]))
	return []domain.Attributes{attrs}
}
