package projector

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/chunk"
)

// Transcript projects episode transcripts. The text is extracted from the raw
// speech-to-text provider response and fanned out to one document per chunk, each
// carrying the parent episode fields.
type Transcript struct {
	base
	maxChunk int
}

// NewTranscript creates the transcript projector.
func NewTranscript(opts Options) *Transcript {
	return &Transcript{
		base: base{
			typ:        domain.TypeTranscript,
			collection: "transcripts",
			fields: []string{
				"id", "raw", "text",
				"episode.id", "episode.title", "episode.number", "episode.type",
				"episode.published_at", "episode.image", "episode.slug",
			},
			textFields: []string{"title", "transcript"},
			assetsURL:  opts.AssetsURL,
		},
		maxChunk: chunk.DefaultMaxLength,
	}
}

// IncludeInIndex implements Projector.
func (p *Transcript) IncludeInIndex(rec domain.Record) bool {
	return episodeID(rec) != "" && ExtractTranscript(rec) != ""
}

// ProjectAttributes implements Projector. A malformed raw response projects to nothing.
func (p *Transcript) ProjectAttributes(rec domain.Record) []domain.Attributes {
	chunks := chunk.Split(ExtractTranscript(rec), p.maxChunk)
	if len(chunks) == 0 {
		return nil
	}

	ep := rec.Object("episode")
	parent := domain.Attributes{}
	set(parent, "episode_id", episodeID(rec))
	set(parent, "title", domain.StringOf(ep["title"]))
	set(parent, "number", number(ep["number"]))
	set(parent, "episode_type", domain.StringOf(ep["type"]))
	set(parent, "published_at", domain.StringOf(ep["published_at"]))
	set(parent, "image", assetURL(p.assetsURL, ep["image"]))
	set(parent, "slug", domain.StringOf(ep["slug"]))

	out := make([]domain.Attributes, len(chunks))
	for i, c := range chunks {
		attrs := parent.Clone()
		attrs["transcript"] = c
		attrs["chunk"] = i
		out[i] = attrs
	}
	return out
}

// DistinctKey groups every chunk of one episode's transcript.
func (p *Transcript) DistinctKey(rec domain.Record) string {
	return "podcast-" + episodeID(rec)
}

// RequiresDeleteBeforeRewrite implements Projector: the chunk count follows the text length.
func (p *Transcript) RequiresDeleteBeforeRewrite() bool { return true }

// episodeID resolves the parent episode key from an expanded or bare relation.
func episodeID(rec domain.Record) string {
	switch v := rec.Fields["episode"].(type) {
	case map[string]any:
		return domain.KeyString(v["id"])
	default:
		return domain.KeyString(v)
	}
}

// ExtractTranscript pulls the transcript text out of the provider response stored
// in "raw" (results.channels[0].alternatives[0].transcript), falling back to a flat
// "transcript" key and then to the record's "text" field. A blank candidate falls
// through to the next one. The result is trimmed; unexpected shapes yield "".
func ExtractTranscript(rec domain.Record) string {
	var candidates []string
	if raw := asObject(rec.Fields["raw"]); raw != nil {
		candidates = append(candidates, firstAlternative(raw), domain.StringOf(raw["transcript"]))
	}
	candidates = append(candidates, rec.String("text"))

	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

func firstAlternative(raw map[string]any) string {
	results := asObject(raw["results"])
	channels, _ := results["channels"].([]any)
	if len(channels) == 0 {
		return ""
	}
	alts, _ := asObject(channels[0])["alternatives"].([]any)
	if len(alts) == 0 {
		return ""
	}
	return domain.StringOf(asObject(alts[0])["transcript"])
}

// asObject accepts a decoded JSON object or a JSON-encoded string of one.
func asObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil
		}
		return m
	default:
		return nil
	}
}
