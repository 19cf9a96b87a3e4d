package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchsync/internal/db"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
)

// Scan fetches one page of FT.SEARCH hits. Full scans return the JSON root of
// every hit; KeysOnly scans use NOCONTENT.
func (s *Store) Scan(ctx context.Context, q *db.ScanQuery) (*db.Page, error) {
	if q.Index == "" {
		return nil, errors.New("scan: index name is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("scan: limit must be positive")
	}

	args := []string{q.Index, queryString(q.Filter)}
	if q.KeysOnly {
		args = append(args, "NOCONTENT")
	} else {
		args = append(args, "RETURN", "1", "$")
	}
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.client.B().Arbitrary(db.CmdSearch).Args(args...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		if redisErrContains(err, "no such index", "unknown index name") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Cmd: db.CmdSearch, Target: q.Index, Err: err}
	}
	return parsePage(raw, q.KeysOnly)
}

// parsePage reads [total, key1, fields1, key2, fields2, ...], or
// [total, key1, key2, ...] for NOCONTENT replies.
func parsePage(raw []rueidis.RedisMessage, keysOnly bool) (*db.Page, error) {
	if len(raw) == 0 {
		return &db.Page{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	stride := 2
	if keysOnly {
		stride = 1
	}

	page := &db.Page{Total: int(total), Hits: make([]db.Hit, 0, (len(raw)-1)/stride)}
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		hit := db.Hit{Key: key}
		if !keysOnly {
			hit.Body = rootBody(raw[i+1])
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

// rootBody picks the "$" member out of a hit's field list.
func rootBody(m rueidis.RedisMessage) []byte {
	fields, err := m.ToArray()
	if err != nil {
		return nil
	}
	for j := 0; j+1 < len(fields); j += 2 {
		if name, _ := fields[j].ToString(); name != "$" {
			continue
		}
		if v, err := fields[j+1].ToString(); err == nil {
			return []byte(v)
		}
	}
	return nil
}

// queryString renders expr as a DIALECT 2 query; an empty expression matches all.
func queryString(expr filter.Expression) string {
	if expr.IsEmpty() {
		return "*"
	}

	var b strings.Builder
	for _, c := range expr.Must() {
		writeTag(&b, "", c)
	}
	for _, c := range expr.MustNot() {
		writeTag(&b, "-", c)
	}
	return b.String()
}

func writeTag(b *strings.Builder, prefix string, c filter.Condition) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(prefix)
	b.WriteByte('@')
	b.WriteString(c.Key())
	b.WriteString(":{")
	b.WriteString(escapeTag(c.Match()))
	b.WriteByte('}')
}

// escapeTag backslash-escapes every rune that is not a letter, digit or underscore.
func escapeTag(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
