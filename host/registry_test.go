package host

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeEntity struct {
	name      string
	uniqueID  string
	state     any
	available bool
	write     func()
	removed   bool
}

func (f *fakeEntity) Domain() string             { return "sensor" }
func (f *fakeEntity) UniqueID() string           { return f.uniqueID }
func (f *fakeEntity) Name() string               { return f.name }
func (f *fakeEntity) State() any                 { return f.state }
func (f *fakeEntity) Unit() string               { return "°C" }
func (f *fakeEntity) Icon() string               { return "mdi:thermometer" }
func (f *fakeEntity) Picture() string            { return "" }
func (f *fakeEntity) Attribution() string        { return "Powered by Dark Sky" }
func (f *fakeEntity) Attributes() map[string]any { return map[string]any{"extra": 1} }
func (f *fakeEntity) Available() bool            { return f.available }
func (f *fakeEntity) AddedToHost(write func())   { f.write = write }
func (f *fakeEntity) WillRemoveFromHost()        { f.removed = true }

type recordingWriter struct {
	mu     sync.Mutex
	states []State
	err    error
}

func (w *recordingWriter) WriteState(ctx context.Context, s State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.states = append(w.states, s)
	return w.err
}

type keepingWriter struct {
	recordingWriter
	last map[string]State
}

func (w *keepingWriter) WriteState(ctx context.Context, s State) error {
	w.mu.Lock()
	if w.last == nil {
		w.last = make(map[string]State)
	}
	w.last[s.EntityID] = s
	w.mu.Unlock()
	return w.recordingWriter.WriteState(ctx, s)
}

func (w *keepingWriter) RemoveState(ctx context.Context, entityID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.last, entityID)
	return w.err
}

func newTestRegistry(writers ...StateWriter) *Registry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRegistry(logger, writers...)
}

func TestFormatState(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "unknown"},
		{"string", "Clear", "Clear"},
		{"float", 21.4, "21.4"},
		{"whole float", 21.0, "21"},
		{"int", 2, "2"},
		{"time", time.Date(2020, 5, 1, 6, 0, 0, 0, time.UTC), "2020-05-01T06:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatState(tt.value); got != tt.expected {
				t.Errorf("FormatState(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Custom Dark Sky Temperature":        "custom_dark_sky_temperature",
		"Custom Dark Sky Daily High Temp 1d": "custom_dark_sky_daily_high_temp_1d",
		"  Weird -- Name!  ":                 "weird_name",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	e := &fakeEntity{name: "Custom Dark Sky Temperature", state: 21.4, available: true}
	t0 := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	first := Render("sensor.t", e, nil, t0)
	if first.State != "21.4" {
		t.Fatalf("state = %q", first.State)
	}
	for _, key := range []string{AttrFriendlyName, AttrUnitOfMeasurement, AttrIcon, AttrAttribution, "extra"} {
		if _, ok := first.Attributes[key]; !ok {
			t.Errorf("missing attribute %s", key)
		}
	}
	if _, ok := first.Attributes[AttrEntityPicture]; ok {
		t.Error("empty picture should not be rendered")
	}
	if first.Context.ID == "" {
		t.Error("expected a context id")
	}

	t.Run("same state keeps last changed", func(t *testing.T) {
		t1 := t0.Add(time.Minute)
		second := Render("sensor.t", e, &first, t1)
		if !second.LastChanged.Equal(t0) || !second.LastUpdated.Equal(t1) {
			t.Errorf("last_changed = %v, last_updated = %v", second.LastChanged, second.LastUpdated)
		}
		if second.Context.ID == first.Context.ID {
			t.Error("every write needs its own context id")
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		e := &fakeEntity{name: "x", state: 21.4}
		t1 := t0.Add(time.Minute)
		s := Render("sensor.x", e, &first, t1)
		if s.State != StateUnavailable || !s.LastChanged.Equal(t1) {
			t.Errorf("got %q changed at %v", s.State, s.LastChanged)
		}
	})
}

func TestRegistryAdd(t *testing.T) {
	w := &recordingWriter{}
	r := newTestRegistry(w)

	a := &fakeEntity{name: "Custom Dark Sky Temperature", uniqueID: "a", state: 20.0, available: true}
	b := &fakeEntity{name: "Custom Dark Sky Temperature", uniqueID: "b", state: 10.0, available: true}
	dup := &fakeEntity{name: "Other", uniqueID: "a", available: true}

	ids := r.Add(a, b, dup)
	want := []string{"sensor.custom_dark_sky_temperature", "sensor.custom_dark_sky_temperature_2"}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	if len(w.states) != 2 {
		t.Fatalf("expected an initial write per entity, got %d", len(w.states))
	}
	if dup.write != nil {
		t.Error("duplicate unique id should not be bound")
	}

	a.state = 22.5
	a.write()
	if len(w.states) != 3 || w.states[2].State != "22.5" {
		t.Fatalf("expected a write after notification, got %+v", w.states)
	}

	s, ok := r.State(ids[0])
	if !ok || s.State != "22.5" {
		t.Errorf("State(%s) = %+v, %t", ids[0], s, ok)
	}
}

func TestRegistryRemove(t *testing.T) {
	w := &recordingWriter{}
	r := newTestRegistry(w)

	a := &fakeEntity{name: "A", uniqueID: "a", available: true}
	b := &fakeEntity{name: "B", uniqueID: "b", available: true}
	ids := r.Add(a, b)

	if !r.Remove(ids[0]) || !a.removed {
		t.Fatal("expected entity to be unbound")
	}
	if r.Remove(ids[0]) {
		t.Error("second remove should report false")
	}

	a.write()
	if len(w.states) != 2 {
		t.Errorf("removed entity should not be written, got %d writes", len(w.states))
	}

	r.RemoveAll()
	if !b.removed || len(r.EntityIDs()) != 0 {
		t.Error("RemoveAll should unbind everything")
	}

	if ids := r.Add(a); len(ids) != 1 {
		t.Error("a removed entity can be added again")
	}
}

func TestRegistryRemoveClearsWriters(t *testing.T) {
	plain := &recordingWriter{}
	keeping := &keepingWriter{}
	r := newTestRegistry(plain, keeping)

	ids := r.Add(&fakeEntity{name: "A", uniqueID: "a", available: true}, &fakeEntity{name: "B", uniqueID: "b", available: true})
	if len(keeping.last) != 2 {
		t.Fatalf("kept states = %d, want 2", len(keeping.last))
	}

	r.Remove(ids[0])
	if _, ok := keeping.last[ids[0]]; ok {
		t.Errorf("%s should be cleared from the writer", ids[0])
	}
	if _, ok := keeping.last[ids[1]]; !ok {
		t.Errorf("%s should still be kept", ids[1])
	}
	if len(plain.states) != 2 {
		t.Errorf("plain writer saw %d writes, want 2", len(plain.states))
	}

	keeping.err = errors.New("gone")
	r.RemoveAll()
	if len(keeping.last) != 0 || len(r.EntityIDs()) != 0 {
		t.Error("RemoveAll should clear every entity even when the remover fails")
	}
}

func TestRegistryWriterFailure(t *testing.T) {
	failing := &recordingWriter{err: errors.New("disk full")}
	ok := &recordingWriter{}
	r := newTestRegistry(failing)
	r.AddWriter(ok)

	r.Add(&fakeEntity{name: "A", available: true})
	if len(failing.states) != 1 || len(ok.states) != 1 {
		t.Errorf("writes = %d/%d, want 1/1", len(failing.states), len(ok.states))
	}
}
