// Package cache holds backend list responses per dashboard path until a mutation revalidates them.
// Entries under one path are kept apart per session, so a session never reads data fetched
// with another session's backend token.
package cache

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"rentals-dashboard/app/session"
)

// Revalidator drops whatever is cached for a dashboard path, for every session.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

type Store interface {
	Revalidator
	Get(ctx context.Context, path, variant string) ([]byte, bool, error)
	Set(ctx context.Context, path, variant string, value []byte) error
}

// Variant names the cache slot of the session in ctx.
func Variant(ctx context.Context) string {
	s := session.FromContext(ctx)
	switch {
	case s == nil:
		return "anonymous"
	case s.ID != "":
		return s.ID
	default:
		return string(s.Role) + ":" + strconv.FormatInt(s.UserID, 10)
	}
}

// Remember returns the value cached for path and the session in ctx, or calls
// fetch and caches its result. Cache failures are logged and never fail the request.
func Remember[T any](ctx context.Context, s Store, log *zap.Logger, path string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	variant := Variant(ctx)
	if raw, ok, err := s.Get(ctx, path, variant); err != nil {
		log.Warn("cache read failed", zap.String("path", path), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Warn("cache entry unreadable", zap.String("path", path))
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := s.Set(ctx, path, variant, raw); err != nil {
			log.Warn("cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return v, nil
}
