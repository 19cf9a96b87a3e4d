package projector

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

func deepgramRaw(text string) map[string]any {
	return map[string]any{
		"results": map[string]any{
			"channels": []any{
				map[string]any{
					"alternatives": []any{
						map[string]any{"transcript": text, "confidence": 0.98},
					},
				},
			},
		},
	}
}

func transcriptRecord(key, text string) domain.Record {
	return domain.NewRecord(domain.TypeTranscript, key, map[string]any{
		"raw": deepgramRaw(text),
		"episode": map[string]any{
			"id":           float64(512),
			"title":        "Modern CSS",
			"number":       float64(512),
			"type":         "full",
			"published_at": "2026-01-02",
			"image":        "img-512",
			"slug":         "modern-css",
		},
	})
}

func sentences(n int) string {
	return strings.Repeat(strings.Repeat("t", 79)+".", n)
}

func TestTranscript_FanOut(t *testing.T) {
	p := NewTranscript(Options{AssetsURL: testAssets})
	rec := transcriptRecord("T1", sentences(75))

	if !p.IncludeInIndex(rec) {
		t.Fatal("transcript with text and episode should be indexed")
	}

	docs := Documents(p, rec)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, d := range docs {
		wantID := domain.ObjectID("T1", i, true)
		if d.ObjectID != wantID {
			t.Errorf("doc %d ObjectID = %q, want %q", i, d.ObjectID, wantID)
		}
		if d.Distinct != "podcast-512" {
			t.Errorf("doc %d distinct = %q", i, d.Distinct)
		}
		if d.Ref != "T1" {
			t.Errorf("doc %d ref = %q", i, d.Ref)
		}
		a := d.Attributes
		if a["title"] != "Modern CSS" || a["slug"] != "modern-css" || a["episode_type"] != "full" {
			t.Errorf("doc %d missing parent fields: %v", i, a)
		}
		if a["image"] != testAssets+"/img-512" {
			t.Errorf("doc %d image = %v", i, a["image"])
		}
		if a["chunk"] != i {
			t.Errorf("doc %d chunk = %v", i, a["chunk"])
		}
		if s, _ := a["transcript"].(string); len(s) == 0 || len(s) > 2500 {
			t.Errorf("doc %d transcript length %d", i, len(s))
		}
	}
	if !p.RequiresDeleteBeforeRewrite() {
		t.Error("transcripts must delete before rewrite")
	}
	if got := p.DeletionFilter(rec).String(); got != "_type:transcript AND _ref:T1" {
		t.Errorf("DeletionFilter = %q", got)
	}
}

func TestTranscript_MalformedRawDegrades(t *testing.T) {
	p := NewTranscript(Options{})
	tests := []struct {
		name string
		raw  any
	}{
		{"nil", nil},
		{"wrong type", 42},
		{"no channels", map[string]any{"results": map[string]any{}}},
		{"empty alternatives", map[string]any{"results": map[string]any{
			"channels": []any{map[string]any{"alternatives": []any{}}},
		}}},
		{"channel not an object", map[string]any{"results": map[string]any{"channels": []any{"x"}}}},
		{"invalid json string", "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.NewRecord(domain.TypeTranscript, "T", map[string]any{
				"raw": tt.raw, "episode": float64(1),
			})
			if p.IncludeInIndex(rec) {
				t.Error("malformed transcript should not be indexed")
			}
			if got := p.ProjectAttributes(rec); len(got) != 0 {
				t.Errorf("expected empty projection, got %d", len(got))
			}
		})
	}
}

func TestExtractTranscript_Fallbacks(t *testing.T) {
	encoded := `{"results":{"channels":[{"alternatives":[{"transcript":"from string"}]}]}}`
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{"json string raw", map[string]any{"raw": encoded}, "from string"},
		{"flat transcript", map[string]any{"raw": map[string]any{"transcript": "flat"}}, "flat"},
		{"text field", map[string]any{"text": "plain"}, "plain"},
		{"blank alternative falls through to text", map[string]any{
			"raw": deepgramRaw(" "), "text": "Real transcript text.",
		}, "Real transcript text."},
		{"blank flat transcript falls through to text", map[string]any{
			"raw": map[string]any{"transcript": "\t"}, "text": "plain",
		}, "plain"},
		{"result is trimmed", map[string]any{"raw": deepgramRaw("  spoken.\n")}, "spoken."},
		{"every candidate blank", map[string]any{
			"raw": map[string]any{"transcript": "   "}, "text": "   \n ",
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.NewRecord(domain.TypeTranscript, "T", tt.fields)
			if got := ExtractTranscript(rec); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscript_BareEpisodeRelation(t *testing.T) {
	p := NewTranscript(Options{})
	rec := domain.NewRecord(domain.TypeTranscript, "T2", map[string]any{
		"text":    "Short one.",
		"episode": "88",
	})
	if p.DistinctKey(rec) != "podcast-88" {
		t.Errorf("DistinctKey = %q", p.DistinctKey(rec))
	}
	docs := Documents(p, rec)
	if len(docs) != 1 || docs[0].ObjectID != "T2_0" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
	if docs[0].Attributes["episode_id"] != "88" {
		t.Errorf("episode_id = %v", docs[0].Attributes["episode_id"])
	}
}

func TestTranscript_BlankTextNotIndexed(t *testing.T) {
	p := NewTranscript(Options{})
	rec := domain.NewRecord(domain.TypeTranscript, "T3", map[string]any{
		"raw":     map[string]any{"transcript": "   "},
		"text":    "   \n ",
		"episode": "88",
	})
	if p.IncludeInIndex(rec) {
		t.Error("whitespace-only transcript must not be indexed")
	}
	if got := p.ProjectAttributes(rec); len(got) != 0 {
		t.Errorf("expected empty projection, got %d", len(got))
	}
}

func TestTranscript_NumberNormalized(t *testing.T) {
	p := NewTranscript(Options{})
	rec := domain.NewRecord(domain.TypeTranscript, "T4", map[string]any{
		"text":    "Short one.",
		"episode": map[string]any{"id": "88", "number": "12"},
	})
	attrs := p.ProjectAttributes(rec)
	if len(attrs) != 1 || attrs[0]["number"] != float64(12) {
		t.Errorf("expected number 12, got %+v", attrs)
	}
}
