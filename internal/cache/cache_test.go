package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir(), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	return s
}

func TestKeyDeterministic(t *testing.T) {
	params := map[string]string{"lat": "52.52", "lon": "13.40", "apikey": "k"}
	k1 := Key("https://example.com/api", params, "weather")
	k2 := Key("https://example.com/api", params, "weather")
	if k1 != k2 {
		t.Fatalf("same request produced different keys: %v vs %v", k1, k2)
	}
}

func TestKeyOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["lat"] = "52.52"
	a["lon"] = "13.40"
	a["apikey"] = "k"

	b := map[string]string{}
	b["apikey"] = "k"
	b["lon"] = "13.40"
	b["lat"] = "52.52"

	if Key("https://example.com/api", a, "weather") != Key("https://example.com/api", b, "weather") {
		t.Fatal("parameter insertion order changed the key")
	}
}

func TestKeyVariesWithInputs(t *testing.T) {
	params := map[string]string{"q": "Berlin"}
	base := Key("https://example.com/api", params, "coordinates")

	if Key("https://example.com/other", params, "coordinates") == base {
		t.Error("different endpoint produced the same key")
	}
	if Key("https://example.com/api", map[string]string{"q": "Paris"}, "coordinates") == base {
		t.Error("different params produced the same key")
	}
	if Key("https://example.com/api", params, "weather") == base {
		t.Error("different category produced the same key")
	}
}

func TestGetAfterPutRoundTrip(t *testing.T) {
	s := newTestStore(t)
	payload := json.RawMessage(`{"temperature":[1,2,3]}`)

	s.Put("weather_abc", payload)
	got, hit := s.Get("weather_abc", time.Hour)
	if !hit {
		t.Fatal("expected a hit immediately after put")
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: got %s want %s", got, payload)
	}
}

func TestGetMissesWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	if _, hit := s.Get("weather_missing", time.Hour); hit {
		t.Fatal("expected a miss for an absent key")
	}
}

func TestGetMissesAfterTTL(t *testing.T) {
	s := newTestStore(t)
	s.Put("weather_abc", json.RawMessage(`{}`))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, hit := s.Get("weather_abc", time.Hour); hit {
		t.Fatal("expected a miss after the TTL elapsed")
	}
}

func TestMalformedEntryIsMiss(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.dir, "weather_bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt entry: %v", err)
	}
	if _, hit := s.Get("weather_bad", time.Hour); hit {
		t.Fatal("malformed entry should be treated as a miss")
	}
}

func TestStaleEntryOverwritten(t *testing.T) {
	s := newTestStore(t)
	s.Put("weather_abc", json.RawMessage(`{"v":1}`))
	s.Put("weather_abc", json.RawMessage(`{"v":2}`))

	got, hit := s.Get("weather_abc", time.Hour)
	if !hit || string(got) != `{"v":2}` {
		t.Fatalf("expected last write to win, got %s (hit=%v)", got, hit)
	}
}

func TestNopStore(t *testing.T) {
	var s Store = Nop{}
	s.Put("k", json.RawMessage(`{}`))
	if _, hit := s.Get("k", time.Hour); hit {
		t.Fatal("nop store must never hit")
	}
}
