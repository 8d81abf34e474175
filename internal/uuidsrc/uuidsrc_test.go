package uuidsrc

import (
	"testing"
	"time"
)

func TestFixed_CyclesThroughUUIDs(t *testing.T) {
	f := &Fixed{UUIDs: []string{"a", "b"}}
	got := []string{f.NewUUID(), f.NewUUID(), f.NewUUID(), f.NewUUID()}
	want := []string{"a", "b", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NewUUID() call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFixed_EmptyListReturnsNilUUID(t *testing.T) {
	f := &Fixed{}
	if u := f.NewUUID(); u != "00000000-0000-4000-8000-000000000000" {
		t.Errorf("NewUUID() = %q", u)
	}
}

func TestFixed_Now(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &Fixed{Clock: clock}
	if got := f.Now(); !got.Equal(clock) {
		t.Errorf("Now() = %v, want %v", got, clock)
	}
}

func TestDefault_NewUUIDIsWellFormed(t *testing.T) {
	d := Default{}
	u := d.NewUUID()
	if len(u) != 36 {
		t.Errorf("NewUUID() = %q, want 36 characters", u)
	}
}
