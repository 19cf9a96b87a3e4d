// Package redis implements db.Store on Redis 8 (or Redis Stack) with the JSON
// and search modules, through rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchsync/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	readyInitialDelay = 100 * time.Millisecond
	readyMaxDelay     = 2 * time.Second
)

// Config holds connection parameters. FT indexes only cover logical database 0,
// so there is no database selector.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DialTimeout time.Duration
}

// Store is the rueidis-backed document store.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the configured addresses.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH replies are parsed in the RESP2 array layout
		Dialer:       net.Dialer{Timeout: cfg.DialTimeout},
		ClientName:   "searchsync",
	})
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}
	return New(client), nil
}

// New wraps an existing rueidis client.
func New(client rueidis.Client) *Store {
	return &Store{client: client}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings until the store answers, backing off from 100ms to 2s
// between attempts, or fails once timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyInitialDelay
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("store not ready after %s: %w", timeout, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
		delay = min(delay*2, readyMaxDelay)
	}
}

// redisErrContains reports whether err is a server error whose message contains
// any of substrs, compared case-insensitively.
func redisErrContains(err error, substrs ...string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(re.Error())
	for _, sub := range substrs {
		if strings.Contains(msg, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
