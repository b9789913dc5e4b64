package store

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/signal"
)

// GestureEvent represents one recorded edge transition.
type GestureEvent struct {
	ID          int64
	SessionID   string
	Side        string
	Gesture     string
	Kind        string
	TimestampMs int64
}

// EventRepository provides operations on recorded gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts one edge event for the given session.
func (r *EventRepository) Record(sessionID string, ev signal.Event) error {
	_, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, side, gesture, kind, timestamp_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(ev.Side), ev.Gesture, string(ev.Kind), ev.Timestamp.UnixMilli(),
	)
	return err
}

// ListBySession retrieves all events for a session in chronological order.
func (r *EventRepository) ListBySession(sessionID string) ([]*GestureEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, side, gesture, kind, timestamp_ms
		 FROM gesture_events WHERE session_id = ? ORDER BY timestamp_ms, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*GestureEvent
	for rows.Next() {
		ev := &GestureEvent{}
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Side, &ev.Gesture, &ev.Kind, &ev.TimestampMs); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySession returns the number of events recorded for a session.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM gesture_events WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	return count, err
}

// Recorder is an edge-event observer that persists every event to the
// store under a fixed session ID.
type Recorder struct {
	events    *EventRepository
	sessionID string
	log       zerolog.Logger
}

// NewRecorder creates a Recorder writing to the given store and session.
func NewRecorder(s *Store, sessionID string, log zerolog.Logger) *Recorder {
	return &Recorder{
		events:    s.Events(),
		sessionID: sessionID,
		log:       log,
	}
}

// HandleGestureEvent records the event. Storage failures are logged, not
// surfaced; losing a log row must never stall the frame pipeline.
func (r *Recorder) HandleGestureEvent(ev signal.Event) {
	if err := r.events.Record(r.sessionID, ev); err != nil {
		r.log.Warn().Err(err).Str("gesture", ev.Gesture).Msg("record gesture event")
	}
}
