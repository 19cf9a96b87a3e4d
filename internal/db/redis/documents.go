package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchsync/internal/db"
)

// PutJSON replaces the document at key with body (JSON.SET key $ body).
func (s *Store) PutJSON(ctx context.Context, key string, body []byte) error {
	cmd := s.client.B().JsonSet().Key(key).Path("$").Value(string(body)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Cmd: db.CmdJSONSet, Target: key, Err: err}
	}
	return nil
}

// Delete removes keys and returns how many existed. Several keys are sent as one
// DEL per key in a single round-trip: a multi-key DEL must not span Cluster slots.
func (s *Store) Delete(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	cmds := make(rueidis.Commands, len(keys))
	for i, key := range keys {
		cmds[i] = s.client.B().Del().Key(key).Build()
	}

	var results []rueidis.RedisResult
	if len(cmds) == 1 {
		results = []rueidis.RedisResult{s.client.Do(ctx, cmds[0])}
	} else {
		results = s.client.DoMulti(ctx, cmds...)
	}

	removed := 0
	for i, res := range results {
		n, err := res.AsInt64()
		if err != nil {
			return removed, &db.Error{Cmd: db.CmdDel, Target: keys[i], Err: err}
		}
		removed += int(n)
	}
	return removed, nil
}
