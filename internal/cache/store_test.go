package cache

import (
	"testing"
	"time"

	"github.com/verilens/verilens/internal/model"
)

func TestResultCache_PutGet(t *testing.T) {
	c := NewResultCache()

	key := Key("Scientists confirm water boils at 100°C at sea level", "")
	if _, found := c.Get(key); found {
		t.Fatal("unexpected hit on empty cache")
	}

	res := model.Success(model.Analysis{Type: model.VerdictClaim, Score: model.IntPtr(92)})
	c.Put(key, res)

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Put")
	}
	if got.Analysis == nil || got.Analysis.Type != model.VerdictClaim {
		t.Errorf("stored result mangled: %+v", got)
	}
	if score, ok := got.ScoreValue(); !ok || score != 92 {
		t.Errorf("expected score 92, got %v %v", score, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	if _, found, err := store.Load(); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	snap := model.Snapshot{
		Type:        model.VerdictClaim,
		Score:       model.IntPtr(92),
		Explanation: `{"basis":"physics"}`,
		URL:         "https://example.com/feed",
		TS:          time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := store.Load()
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if got.Type != snap.Type || got.URL != snap.URL || !got.TS.Equal(snap.TS) {
		t.Errorf("round trip mismatch: %+v vs %+v", got, snap)
	}
	if got.Score == nil || *got.Score != 92 {
		t.Errorf("score lost in round trip: %+v", got.Score)
	}
}

func TestMemoryCache_DefaultTTLFallback(t *testing.T) {
	c := NewMemoryCache(20*time.Millisecond, time.Minute)
	key := PageKey("https://example.com/feed")

	// TTL 0 inherits the tier default, mirroring the disk tier.
	if err := c.Set(key, []byte("<html>snap</html>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, found := c.Get(key); !found || string(val) != "<html>snap</html>" {
		t.Fatalf("miss after Set: found=%v val=%q", found, val)
	}

	time.Sleep(40 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("snapshot should have expired under the default TTL")
	}

	if err := c.Set(key, []byte("fresh"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after Clear")
	}
}

func TestPageCache_LayeredPromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewPageCache(dir, time.Minute)

	key := PageKey("https://example.com/feed")
	if err := c.Set(key, []byte("<html></html>"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if val, found := c.Get(key); !found || string(val) != "<html></html>" {
		t.Fatalf("memory tier miss: found=%v val=%q", found, val)
	}

	// A fresh cache over the same dir starts with only the disk tier.
	c2 := NewPageCache(dir, time.Minute)
	if val, found := c2.Get(key); !found || string(val) != "<html></html>" {
		t.Fatalf("disk tier miss: found=%v val=%q", found, val)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	c3 := NewPageCache(dir, time.Minute)
	if _, found := c3.Get(key); found {
		t.Error("expected miss after Clear")
	}
}
