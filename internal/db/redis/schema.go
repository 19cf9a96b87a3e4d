package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchsync/internal/db"
)

// CreateIndex runs FT.CREATE for a JSON schema.
func (s *Store) CreateIndex(ctx context.Context, sc *db.Schema) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	cmd := s.client.B().Arbitrary(db.CmdCreate).Args(createArgs(sc)...).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Cmd: db.CmdCreate, Target: sc.Name, Err: err}
	}
	return nil
}

// DropIndex removes the index definition. The documents themselves are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.client.B().Arbitrary(db.CmdDrop).Args(name).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "unknown index name", "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Cmd: db.CmdDrop, Target: name, Err: err}
	}
	return nil
}

// IndexExists probes the index with FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.client.B().Arbitrary(db.CmdInfo).Args(name).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if redisErrContains(err, "unknown index name", "no such index") {
			return false, nil
		}
		return false, &db.Error{Cmd: db.CmdInfo, Target: name, Err: err}
	}
	return true, nil
}

// createArgs renders: name ON JSON PREFIX 1 prefix SCHEMA $.f AS f TAG CASESENSITIVE ...
func createArgs(sc *db.Schema) []string {
	args := make([]string, 0, 7+5*len(sc.Fields))
	args = append(args, sc.Name, "ON", "JSON", "PREFIX", "1", sc.Prefix, "SCHEMA")
	for _, f := range sc.Fields {
		args = append(args, f.Path(), "AS", f.Name, f.Kind.String())
		if f.Kind == db.FieldTag {
			args = append(args, "CASESENSITIVE")
		}
	}
	return args
}
