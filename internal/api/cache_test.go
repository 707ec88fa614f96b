package api

import (
	"testing"

	"github.com/sitepulse/sitepulse/internal/store"
)

func TestSnapshotCacheEviction(t *testing.T) {
	c := NewSnapshotCache(2)
	c.Put("2024-05-01", &store.Snapshot{Date: "2024-05-01"})
	c.Put("2024-05-02", &store.Snapshot{Date: "2024-05-02"})

	// Touch the older entry so the newer one is evicted next.
	if c.Get("2024-05-01") == nil {
		t.Fatal("expected hit")
	}
	c.Put("2024-05-03", &store.Snapshot{Date: "2024-05-03"})

	if c.Get("2024-05-02") != nil {
		t.Error("expected 2024-05-02 to be evicted")
	}
	if c.Get("2024-05-01") == nil || c.Get("2024-05-03") == nil {
		t.Error("expected recent entries to remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	c := NewSnapshotCache(0)
	c.Put("2024-05-01", &store.Snapshot{TotalScore: 1})
	c.Put("2024-05-01", &store.Snapshot{TotalScore: 2})

	if got := c.Get("2024-05-01"); got == nil || got.TotalScore != 2 {
		t.Errorf("Get = %+v, want replaced entry", got)
	}

	c.Invalidate("2024-05-01")
	c.Invalidate("2024-05-09")
	if c.Get("2024-05-01") != nil || c.Len() != 0 {
		t.Error("expected empty cache after invalidate")
	}
}
