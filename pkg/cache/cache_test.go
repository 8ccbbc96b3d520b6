package cache

import (
	"os"
	"reflect"
	"testing"
	"time"

	"transitctl/pkg/transit"
)

func TestPlacesReadWrite(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	key := Key("https://v6.db.transport.rest", "Wolfenbüttel", true)

	// 1. Read non-existent entry
	if places, ok := c.Get(key); ok || places != nil {
		t.Errorf("expected Get to fail for a missing entry, got %+v", places)
	}

	// 2. Write entry
	dist := 120
	want := []transit.Place{{
		Type:     "stop",
		ID:       "8000049",
		Name:     "Wolfenbüttel",
		Location: &transit.Coordinates{Type: "location", Latitude: 52.16, Longitude: 10.53},
		Products: transit.Products{"regional": true, "bus": false},
		Distance: &dist,
	}}
	if err := c.Put(key, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(c.path(key)); err != nil {
		t.Errorf("expected cache file at %s: %v", c.path(key), err)
	}

	// 3. Read it back
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected Get to succeed for a fresh entry")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("loaded places do not match.\nGot: %+v\nExpected: %+v", got, want)
	}

	// Other flags or endpoints are separate entries
	if _, ok := c.Get(Key("https://v6.db.transport.rest", "Wolfenbüttel", false)); ok {
		t.Error("expected a miss for a different stopsOnly flag")
	}
	if _, ok := c.Get(Key("https://v6.vbb.transport.rest", "Wolfenbüttel", true)); ok {
		t.Error("expected a miss for a different endpoint")
	}
}

func TestPlacesExpiration(t *testing.T) {
	c, err := New(t.TempDir(), 12*time.Hour)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	key := Key("http://example.test", "old", false)

	c.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	if err := c.Put(key, []transit.Place{{Type: "stop", ID: "1", Name: "Old"}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	c.now = time.Now

	if _, ok := c.Get(key); ok {
		t.Error("expected Get to reject an entry older than the TTL")
	}
}

func TestPlacesSkipsEmpty(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	key := Key("http://example.test", "nowhere", false)
	if err := c.Put(key, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Errorf("expected no cache file for an empty result, stat err = %v", err)
	}
}
