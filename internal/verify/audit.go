package verify

import (
	"log"
	"sync"
)

// AuditSink receives every field-transition event. The sink is injected, not
// ambient: callers that need durable audit wire the SQLite store, tests wire
// a MemorySink.
type AuditSink interface {
	Record(ev AuditEvent) error
}

// MemorySink keeps events in order. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []AuditEvent
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(ev AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *MemorySink) Events() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// LogSink writes events to the process log. Development default when no
// durable sink is configured.
type LogSink struct{}

func (LogSink) Record(ev AuditEvent) error {
	log.Printf("audit lease=%s field=%s action=%s %s->%s actor=%s",
		ev.LeaseID, ev.FieldName, ev.Action, ev.PrevState, ev.NewState, ev.Actor)
	return nil
}
