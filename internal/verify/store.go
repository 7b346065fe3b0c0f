package verify

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stayll/leasecore/internal/leasefield"
)

type Config struct {
	Clock func() time.Time
	Audit AuditSink
}

// Store keeps leases, fields, and audit events in memory. Two locks guard it:
// a per-lease mutex serializes whole transitions so two concurrent reviewer
// actions cannot interleave into a lost update, and s.mu guards every read
// and write of the maps and the records they point to. Accessors take only
// s.mu; transitions hold their lease's mutex across the read-decide-write and
// re-acquire s.mu for each map access inside it.
type Store struct {
	mu  sync.Mutex
	cfg Config

	leases map[string]*Lease
	fields map[string]map[string]*Field
	events map[string][]AuditEvent
	locks  map[string]*sync.Mutex
}

func NewStore(cfg Config) *Store {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Audit == nil {
		cfg.Audit = LogSink{}
	}
	return &Store{
		cfg:    cfg,
		leases: map[string]*Lease{},
		fields: map[string]map[string]*Field{},
		events: map[string][]AuditEvent{},
		locks:  map[string]*sync.Mutex{},
	}
}

func (s *Store) leaseLock(leaseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[leaseID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[leaseID] = l
	}
	return l
}

// ApplyScan persists a scan's assessments as fields with their initial
// validation states. An existing human-verified field is never overwritten
// unless force is set: re-extraction must be an explicit decision, not a side
// effect. Every created or replaced field emits one audit event.
func (s *Store) ApplyScan(scan leasefield.ScanResult, actor string, force bool) (Lease, []Field, error) {
	if strings.TrimSpace(scan.LeaseID) == "" {
		return Lease{}, nil, NewValidationError("scan has no lease id")
	}
	if strings.TrimSpace(actor) == "" {
		return Lease{}, nil, NewValidationError("actor is required")
	}

	lock := s.leaseLock(scan.LeaseID)
	lock.Lock()
	defer lock.Unlock()

	now := s.cfg.Clock()
	s.mu.Lock()
	lease, ok := s.leases[scan.LeaseID]
	if !ok {
		lease = &Lease{ID: scan.LeaseID, Status: LeaseUnverified, CreatedAt: now}
		s.leases[scan.LeaseID] = lease
	}
	if s.fields[scan.LeaseID] == nil {
		s.fields[scan.LeaseID] = map[string]*Field{}
	}
	byName := s.fields[scan.LeaseID]
	s.mu.Unlock()

	for _, a := range scan.Fields {
		next := &Field{
			LeaseID:         scan.LeaseID,
			FieldName:       a.FieldName,
			Priority:        a.Priority,
			ValueText:       a.ValueText,
			ValueNormalized: a.ValueNormalized,
			Confidence:      a.Confidence,
			ReasonCodes:     a.ReasonCodes,
			Source:          a.Source,
			State:           InitialState(a.Found, a.FormatValid, a.Confidence, a.Priority),
			LastModifiedBy:  actor,
			UpdatedAt:       now,
		}

		s.mu.Lock()
		prev := byName[a.FieldName]
		s.mu.Unlock()
		if prev != nil && prev.State.IsTerminal() && !force {
			continue
		}
		ev := AuditEvent{
			ID:        uuid.NewString(),
			LeaseID:   scan.LeaseID,
			FieldName: a.FieldName,
			Action:    ActionExtract,
			NewState:  string(next.State),
			NewValue:  next.ValueText,
			Actor:     actor,
			At:        now,
		}
		if prev != nil {
			ev.Action = ActionReExtract
			ev.PrevState = string(prev.State)
			ev.PrevValue = prev.ValueText
		}
		if err := s.record(ev); err != nil {
			return Lease{}, nil, err
		}
		s.mu.Lock()
		byName[a.FieldName] = next
		s.mu.Unlock()
	}

	leaseCopy, fieldsCopy, err := s.recomputeLocked(scan.LeaseID)
	if err != nil {
		return Lease{}, nil, err
	}
	return leaseCopy, fieldsCopy, nil
}

// Approve marks a field human_pass, value unchanged.
func (s *Store) Approve(leaseID, fieldName, actor, note string) (Field, error) {
	return s.humanTransition(leaseID, fieldName, actor, note, "", StateHumanPass)
}

// Edit replaces a field's value and normalized value and marks it human_edit.
func (s *Store) Edit(leaseID, fieldName, newValue, actor, note string) (Field, error) {
	if strings.TrimSpace(newValue) == "" {
		return Field{}, NewValidationError("edit requires a non-empty value")
	}
	return s.humanTransition(leaseID, fieldName, actor, note, strings.TrimSpace(newValue), StateHumanEdit)
}

func (s *Store) humanTransition(leaseID, fieldName, actor, note, newValue string, target ValidationState) (Field, error) {
	if strings.TrimSpace(actor) == "" {
		return Field{}, NewValidationError("actor is required")
	}

	lock := s.leaseLock(leaseID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	field := s.fields[leaseID][fieldName]
	s.mu.Unlock()
	if field == nil {
		return Field{}, NewNotFoundError("field %s not found for lease %s", fieldName, leaseID)
	}

	now := s.cfg.Clock()
	ev := AuditEvent{
		ID:        uuid.NewString(),
		LeaseID:   leaseID,
		FieldName: fieldName,
		PrevState: string(field.State),
		NewState:  string(target),
		PrevValue: field.ValueText,
		Actor:     actor,
		Note:      note,
		At:        now,
	}

	switch target {
	case StateHumanPass:
		ev.Action = ActionApprove
		ev.NewValue = field.ValueText
	case StateHumanEdit:
		ev.Action = ActionEdit
		ev.NewValue = &newValue
	default:
		return Field{}, NewValidationError("illegal target state %s", target)
	}

	// Record first so a failed audit sink leaves the field untouched.
	if err := s.record(ev); err != nil {
		return Field{}, err
	}

	s.mu.Lock()
	if target == StateHumanEdit {
		field.ValueText = &newValue
		normalized := normalizeEdit(fieldName, newValue)
		field.ValueNormalized = &normalized
	}
	field.State = target
	field.LastModifiedBy = actor
	if note != "" {
		field.Notes = note
	}
	field.UpdatedAt = now
	result := *field
	s.mu.Unlock()

	if _, _, err := s.recomputeLocked(leaseID); err != nil {
		return Field{}, err
	}
	return result, nil
}

// normalizeEdit runs the catalog validator over a reviewer-supplied value.
// The reviewer's assertion stands even when the validator rejects it; the
// raw value then doubles as the normalized form.
func normalizeEdit(fieldName, value string) string {
	def, ok := leasefield.Definition(fieldName)
	if !ok || def.Validate == nil {
		return value
	}
	if normalized, ok := def.Validate(value); ok {
		return normalized
	}
	return value
}

func (s *Store) record(ev AuditEvent) error {
	if err := s.cfg.Audit.Record(ev); err != nil {
		return NewInternalError("audit sink: %v", err)
	}
	s.mu.Lock()
	s.events[ev.LeaseID] = append(s.events[ev.LeaseID], ev)
	s.mu.Unlock()
	return nil
}

// recomputeLocked re-derives lease status and confidence from a consistent
// snapshot of the field set. Callers must hold the per-lease lock.
func (s *Store) recomputeLocked(leaseID string) (Lease, []Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lease := s.leases[leaseID]
	if lease == nil {
		return Lease{}, nil, NewNotFoundError("lease %s not found", leaseID)
	}
	fields := sortedFields(s.fields[leaseID])
	if lease.Status == LeaseVerified && len(fields) == 0 {
		return Lease{}, nil, NewInternalError("verified lease %s has no fields", leaseID)
	}
	lease.Status = AggregateStatus(fields)
	lease.Confidence = MeanConfidence(fields)
	lease.UpdatedAt = s.cfg.Clock()
	return *lease, fields, nil
}

func sortedFields(byName map[string]*Field) []Field {
	out := make([]Field, 0, len(byName))
	for _, f := range byName {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldName < out[j].FieldName })
	return out
}

// Lease returns the current aggregate record.
func (s *Store) Lease(leaseID string) (Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lease := s.leases[leaseID]
	if lease == nil {
		return Lease{}, NewNotFoundError("lease %s not found", leaseID)
	}
	return *lease, nil
}

// Fields returns the lease's fields sorted by name.
func (s *Store) Fields(leaseID string) ([]Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leases[leaseID] == nil {
		return nil, NewNotFoundError("lease %s not found", leaseID)
	}
	return sortedFields(s.fields[leaseID]), nil
}

// Events returns the lease's audit trail in emission order.
func (s *Store) Events(leaseID string) []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEvent, len(s.events[leaseID]))
	copy(out, s.events[leaseID])
	return out
}

// Leases lists all aggregate records sorted by ID.
func (s *Store) Leases() []Lease {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Lease, 0, len(s.leases))
	for _, l := range s.leases {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
