package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/detector"
	"github.com/nisharg/mudra/internal/signal"
)

// newTestStore creates a store backed by a temp database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRepository_CreateAndEnd(t *testing.T) {
	s := newTestStore(t)
	id := uuid.NewString()

	sess, err := s.Sessions().Create(id)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if sess.ID != id {
		t.Errorf("session ID = %q, want %q", sess.ID, id)
	}
	if sess.EndedAt != nil {
		t.Error("new session should not have an end time")
	}

	if err := s.Sessions().End(id); err != nil {
		t.Fatalf("failed to end session: %v", err)
	}

	got, err := s.Sessions().GetByID(id)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.EndedAt == nil {
		t.Error("ended session should have an end time")
	}
}

func TestSessionRepository_EndUnknown(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().End("no-such-session"); err != ErrNotFound {
		t.Errorf("End on unknown session = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Sessions().Create(uuid.NewString()); err != nil {
			t.Fatalf("failed to create session %d: %v", i, err)
		}
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("listed %d sessions, want 3", len(sessions))
	}
}

func TestEventRepository_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	id := uuid.NewString()
	if _, err := s.Sessions().Create(id); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	now := time.Unix(1700000000, 0)
	events := []signal.Event{
		{Side: detector.SideLeft, Gesture: signal.GestureFist, Kind: signal.EventStart, Timestamp: now},
		{Side: detector.SideLeft, Gesture: signal.GestureFist, Kind: signal.EventEnd, Timestamp: now.Add(time.Second)},
		{Side: detector.SideRight, Gesture: signal.GesturePinch, Kind: signal.EventStart, Timestamp: now.Add(2 * time.Second)},
	}

	for _, ev := range events {
		if err := s.Events().Record(id, ev); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}

	got, err := s.Events().ListBySession(id)
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("listed %d events, want 3", len(got))
	}

	// Chronological order, fields preserved
	if got[0].Gesture != signal.GestureFist || got[0].Kind != "start" || got[0].Side != "left" {
		t.Errorf("first event = %+v, want fist/start/left", got[0])
	}
	if got[2].Gesture != signal.GesturePinch || got[2].Side != "right" {
		t.Errorf("third event = %+v, want pinch/right", got[2])
	}
	if got[0].TimestampMs != now.UnixMilli() {
		t.Errorf("first event timestamp = %d, want %d", got[0].TimestampMs, now.UnixMilli())
	}

	count, err := s.Events().CountBySession(id)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestEventRepository_ForeignKeyEnforced(t *testing.T) {
	s := newTestStore(t)

	ev := signal.Event{
		Side: detector.SideLeft, Gesture: signal.GestureOpen,
		Kind: signal.EventStart, Timestamp: time.Now(),
	}
	if err := s.Events().Record("missing-session", ev); err == nil {
		t.Error("expected foreign key violation for unknown session")
	}
}

func TestRecorder_PersistsEvents(t *testing.T) {
	s := newTestStore(t)
	id := uuid.NewString()
	if _, err := s.Sessions().Create(id); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	rec := NewRecorder(s, id, zerolog.Nop())
	rec.HandleGestureEvent(signal.Event{
		Side: detector.SideRight, Gesture: signal.GestureOpen,
		Kind: signal.EventStart, Timestamp: time.Now(),
	})

	count, err := s.Events().CountBySession(id)
	if err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if count != 1 {
		t.Errorf("recorder persisted %d events, want 1", count)
	}
}
