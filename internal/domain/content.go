package domain

import (
	"fmt"
	"strings"
)

// ContentType tags a canonical record with the kind of content it holds.
type ContentType string

// Supported content types.
const (
	TypeEpisode    ContentType = "episode"
	TypeEvent      ContentType = "event"
	TypePerson     ContentType = "person"
	TypeDailyPick  ContentType = "daily-pick"
	TypeTranscript ContentType = "transcript"
)

// AllTypes is the literal accepted by the CLI to select every content type.
const AllTypes = "all"

// ContentTypes returns every supported content type in processing order.
func ContentTypes() []ContentType {
	return []ContentType{TypeEpisode, TypeEvent, TypePerson, TypeDailyPick, TypeTranscript}
}

// ParseContentType validates a content type name.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ContentTypes() {
		if ct == known {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownContentType)
}

// String implements fmt.Stringer.
func (t ContentType) String() string { return string(t) }
