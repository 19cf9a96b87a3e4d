package projector

import (
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// assetURL rewrites a CMS file reference (a file id, or an expanded file object)
// to an absolute URL. Absolute URLs pass through unchanged.
func assetURL(baseURL string, v any) string {
	var id string
	switch t := v.(type) {
	case map[string]any:
		id = domain.KeyString(t["id"])
	default:
		id = domain.KeyString(v)
	}
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	if baseURL == "" {
		return id
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(id, "/")
}
