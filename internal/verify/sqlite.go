package verify

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/stayll/leasecore/internal/leasefield"
)

// SQLiteStore implements verify.API with SQLite-backed persistence. It
// delegates the state machine and aggregation to an embedded in-memory
// Store and persists leases, fields, and audit events with write-through
// semantics. Audit rows are written by a sink wrapped around the inner
// store's, so an event row exists before the transition is acknowledged.
type SQLiteStore struct {
	inner *Store
	db    *sqlx.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leases (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'unverified',
	confidence      INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS fields (
	lease_id         TEXT NOT NULL,
	field_name       TEXT NOT NULL,
	priority         TEXT NOT NULL DEFAULT 'standard',
	value_text       TEXT,
	value_normalized TEXT,
	confidence       INTEGER NOT NULL DEFAULT 0,
	reason_codes     TEXT NOT NULL DEFAULT '[]',
	source           TEXT NOT NULL DEFAULT '{}',
	state            TEXT NOT NULL DEFAULT 'flagged',
	notes            TEXT NOT NULL DEFAULT '',
	last_modified_by TEXT NOT NULL DEFAULT '',
	updated_at       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (lease_id, field_name)
);

CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	lease_id   TEXT NOT NULL,
	field_name TEXT NOT NULL,
	action     TEXT NOT NULL,
	prev_state TEXT NOT NULL DEFAULT '',
	new_state  TEXT NOT NULL DEFAULT '',
	prev_value TEXT,
	new_value  TEXT,
	actor      TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	at         TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0
);
`

func NewSQLiteStore(dbPath string, cfg Config) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	cfg.Audit = &sqliteAuditSink{store: s, next: cfg.Audit}
	s.inner = NewStore(cfg)

	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteAuditSink persists each event row before handing it to the wrapped
// sink. A failed insert fails the transition that caused it.
type sqliteAuditSink struct {
	store *SQLiteStore
	next  AuditSink
}

func (a *sqliteAuditSink) Record(ev AuditEvent) error {
	if err := a.store.saveEvent(ev); err != nil {
		return err
	}
	if a.next != nil {
		return a.next.Record(ev)
	}
	return nil
}

// --- load all state from SQLite into the in-memory Store ---

func (s *SQLiteStore) loadAll() error {
	if err := s.loadLeases(); err != nil {
		return err
	}
	if err := s.loadFields(); err != nil {
		return err
	}
	return s.loadEvents()
}

func (s *SQLiteStore) loadLeases() error {
	rows, err := s.db.Query("SELECT id, organization_id, status, confidence, created_at, updated_at FROM leases")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var l Lease
		var createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.OrganizationID, &l.Status, &l.Confidence, &createdAt, &updatedAt); err != nil {
			return err
		}
		l.CreatedAt = parseTime(createdAt)
		l.UpdatedAt = parseTime(updatedAt)
		s.inner.leases[l.ID] = &l
		if _, ok := s.inner.fields[l.ID]; !ok {
			s.inner.fields[l.ID] = map[string]*Field{}
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadFields() error {
	rows, err := s.db.Query(`SELECT lease_id, field_name, priority, value_text, value_normalized,
		confidence, reason_codes, source, state, notes, last_modified_by, updated_at FROM fields`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f Field
		var valueText, valueNormalized sql.NullString
		var reasonsJSON, sourceJSON, updatedAt string
		if err := rows.Scan(&f.LeaseID, &f.FieldName, &f.Priority, &valueText, &valueNormalized,
			&f.Confidence, &reasonsJSON, &sourceJSON, &f.State, &f.Notes, &f.LastModifiedBy, &updatedAt); err != nil {
			return err
		}
		f.ValueText = fromNullString(valueText)
		f.ValueNormalized = fromNullString(valueNormalized)
		_ = json.Unmarshal([]byte(reasonsJSON), &f.ReasonCodes)
		_ = json.Unmarshal([]byte(sourceJSON), &f.Source)
		f.UpdatedAt = parseTime(updatedAt)
		if _, ok := s.inner.fields[f.LeaseID]; !ok {
			s.inner.fields[f.LeaseID] = map[string]*Field{}
		}
		s.inner.fields[f.LeaseID][f.FieldName] = &f
	}
	return rows.Err()
}

func (s *SQLiteStore) loadEvents() error {
	rows, err := s.db.Query(`SELECT id, lease_id, field_name, action, prev_state, new_state,
		prev_value, new_value, actor, note, at FROM audit_events ORDER BY lease_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ev AuditEvent
		var prevValue, newValue sql.NullString
		var at string
		if err := rows.Scan(&ev.ID, &ev.LeaseID, &ev.FieldName, &ev.Action, &ev.PrevState, &ev.NewState,
			&prevValue, &newValue, &ev.Actor, &ev.Note, &at); err != nil {
			return err
		}
		ev.PrevValue = fromNullString(prevValue)
		ev.NewValue = fromNullString(newValue)
		ev.At = parseTime(at)
		s.inner.events[ev.LeaseID] = append(s.inner.events[ev.LeaseID], ev)
	}
	return rows.Err()
}

// --- persist helpers ---

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func toNullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func fromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (s *SQLiteStore) saveLease(l Lease) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO leases (id, organization_id, status, confidence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.OrganizationID,
		string(l.Status),
		l.Confidence,
		timeToString(l.CreatedAt),
		timeToString(l.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) saveField(f Field) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO fields (lease_id, field_name, priority, value_text, value_normalized,
		confidence, reason_codes, source, state, notes, last_modified_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.LeaseID,
		f.FieldName,
		string(f.Priority),
		toNullString(f.ValueText),
		toNullString(f.ValueNormalized),
		f.Confidence,
		marshalJSON(f.ReasonCodes),
		marshalJSON(f.Source),
		string(f.State),
		f.Notes,
		f.LastModifiedBy,
		timeToString(f.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) saveEvent(ev AuditEvent) error {
	var position int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM audit_events WHERE lease_id = ?", ev.LeaseID).Scan(&position); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO audit_events (id, lease_id, field_name, action, prev_state, new_state,
		prev_value, new_value, actor, note, at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.LeaseID,
		ev.FieldName,
		string(ev.Action),
		ev.PrevState,
		ev.NewState,
		toNullString(ev.PrevValue),
		toNullString(ev.NewValue),
		ev.Actor,
		ev.Note,
		timeToString(ev.At),
		position,
	)
	return err
}

func (s *SQLiteStore) persistLease(leaseID string, fields []Field) error {
	lease, err := s.inner.Lease(leaseID)
	if err != nil {
		return err
	}
	if err := s.saveLease(lease); err != nil {
		return err
	}
	for _, f := range fields {
		if err := s.saveField(f); err != nil {
			return err
		}
	}
	return nil
}

// --- verify.API implementation ---

func (s *SQLiteStore) ApplyScan(scan leasefield.ScanResult, actor string, force bool) (Lease, []Field, error) {
	lease, fields, err := s.inner.ApplyScan(scan, actor, force)
	if err != nil {
		return Lease{}, nil, err
	}
	if perr := s.persistLease(lease.ID, fields); perr != nil {
		return Lease{}, nil, NewInternalError("persist scan: %v", perr)
	}
	return lease, fields, nil
}

func (s *SQLiteStore) Approve(leaseID, fieldName, actor, note string) (Field, error) {
	f, err := s.inner.Approve(leaseID, fieldName, actor, note)
	if err != nil {
		return Field{}, err
	}
	if perr := s.persistLease(leaseID, []Field{f}); perr != nil {
		return Field{}, NewInternalError("persist approval: %v", perr)
	}
	return f, nil
}

func (s *SQLiteStore) Edit(leaseID, fieldName, newValue, actor, note string) (Field, error) {
	f, err := s.inner.Edit(leaseID, fieldName, newValue, actor, note)
	if err != nil {
		return Field{}, err
	}
	if perr := s.persistLease(leaseID, []Field{f}); perr != nil {
		return Field{}, NewInternalError("persist edit: %v", perr)
	}
	return f, nil
}

func (s *SQLiteStore) Lease(leaseID string) (Lease, error) {
	return s.inner.Lease(leaseID)
}

func (s *SQLiteStore) Fields(leaseID string) ([]Field, error) {
	return s.inner.Fields(leaseID)
}

func (s *SQLiteStore) Events(leaseID string) []AuditEvent {
	return s.inner.Events(leaseID)
}

func (s *SQLiteStore) Leases() []Lease {
	return s.inner.Leases()
}

var _ API = (*SQLiteStore)(nil)
