// Package archive keeps an immutable copy of each day's score snapshot and
// actions in blob storage, next to the authoritative Postgres rows.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/pkg/metrics"
)

// ErrNotFound is returned when no blob exists for the requested day.
var ErrNotFound = errors.New("archive object not found")

// Kind separates snapshot blobs from action blobs.
type Kind string

const (
	KindSnapshot Kind = "snapshots"
	KindActions  Kind = "actions"
)

// Store abstracts blob storage for daily score documents.
type Store interface {
	Put(ctx context.Context, siteID string, kind Kind, day time.Time, data []byte) error
	Get(ctx context.Context, siteID string, kind Kind, day time.Time) ([]byte, error)
}

// Key is the object key of a day's document: <site>/<kind>/<YYYY-MM-DD>.json.
func Key(siteID string, kind Kind, day time.Time) string {
	return siteID + "/" + string(kind) + "/" + metrics.FormatDay(day) + ".json"
}

// Backend names accepted by New.
const (
	BackendNone  = ""
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string
	Dir      string // local
	Bucket   string // s3, gcs
	Region   string // s3
	Endpoint string // s3-compatible stores
}

// New builds the configured Store. BackendNone returns a nil Store, which
// callers treat as archiving disabled.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone:
		return nil, nil
	case BackendLocal:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("local archive: dir is required")
		}
		return NewLocalStore(cfg.Dir), nil
	case BackendS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 archive: bucket is required")
		}
		s, err := NewS3Store(ctx, S3Config{Bucket: cfg.Bucket, Region: cfg.Region, Endpoint: cfg.Endpoint})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendGCS:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("gcs archive: bucket is required")
		}
		s, err := NewGCSStore(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
