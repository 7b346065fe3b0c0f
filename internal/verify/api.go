package verify

import "github.com/stayll/leasecore/internal/leasefield"

// API is the verification surface the HTTP layer and CLIs program against.
// Both the in-memory Store and the SQLite-backed store implement it.
type API interface {
	ApplyScan(scan leasefield.ScanResult, actor string, force bool) (Lease, []Field, error)
	Approve(leaseID, fieldName, actor, note string) (Field, error)
	Edit(leaseID, fieldName, newValue, actor, note string) (Field, error)
	Lease(leaseID string) (Lease, error)
	Fields(leaseID string) ([]Field, error)
	Events(leaseID string) []AuditEvent
	Leases() []Lease
}

var _ API = (*Store)(nil)
