// Package compliance derives dated obligations from a lease schema. Events
// are regenerable, never a source of truth: re-running on an unchanged
// schema yields the same events in the same order, with only the
// time-dependent status differing.
package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

type EventType string

const (
	EventRenewalNotice     EventType = "renewal_notice"
	EventEscalation        EventType = "escalation"
	EventComplianceCheck   EventType = "compliance_check"
	EventTerminationNotice EventType = "termination_notice"
	EventLeaseExpiration   EventType = "lease_expiration"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// Due-window look-back lengths, ending at the event date. UI highlighting
// policy, not correctness.
const (
	noticeWindowDays     = 7
	expirationWindowDays = 90
)

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Event struct {
	LeaseID     string    `json:"lease_id"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"event_type"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	DueWindow   *Window   `json:"due_window,omitempty"`
}

// Generate unions four independent rules over the schema: renewal-notice
// deadlines, escalation dates, stored obligations, and the lease expiration
// itself. Output is ordered by date.
func Generate(lease leaseschema.Lease, now time.Time) []Event {
	var events []Event

	if lease.Expiration != nil {
		for _, opt := range lease.RenewalOptions {
			if opt.NoticeDays <= 0 {
				continue
			}
			date := lease.Expiration.AddDate(0, 0, -opt.NoticeDays)
			events = append(events, Event{
				LeaseID:     lease.ID,
				Date:        date,
				Type:        EventRenewalNotice,
				Description: fmt.Sprintf("Renewal notice deadline (%d days before expiration)", opt.NoticeDays),
			})
		}
	}

	for _, term := range lease.Escalations {
		if ev, ok := escalationEvent(lease, term, now); ok {
			events = append(events, ev)
		}
	}

	for _, ob := range lease.Obligations {
		events = append(events, Event{
			LeaseID:     lease.ID,
			Date:        ob.Date,
			Type:        obligationEventType(ob.Kind),
			Description: ob.Description,
		})
	}

	if lease.Expiration != nil {
		events = append(events, Event{
			LeaseID:     lease.ID,
			Date:        *lease.Expiration,
			Type:        EventLeaseExpiration,
			Description: "Lease expiration",
		})
	}

	for i := range events {
		finalize(&events[i], now)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].Type != events[j].Type {
			return events[i].Type < events[j].Type
		}
		return events[i].Description < events[j].Description
	})
	return events
}

// escalationEvent resolves one escalation term to a dated event. An explicit
// effective date always wins over frequency recurrence. Without one, the
// next occurrence strictly after now is computed by stepping the recurrence
// period from commencement; a lease that has not commenced yields nothing.
func escalationEvent(lease leaseschema.Lease, term leaseschema.EscalationTerm, now time.Time) (Event, bool) {
	description := "Rent escalation"
	if term.ClauseText != "" {
		description = "Rent escalation: " + term.ClauseText
	}

	if term.EffectiveDate != nil {
		return Event{
			LeaseID:     lease.ID,
			Date:        *term.EffectiveDate,
			Type:        EventEscalation,
			Description: description,
		}, true
	}

	months := term.Frequency.Months()
	if months == 0 {
		// one_time with no explicit date: nothing to schedule.
		return Event{}, false
	}
	if lease.Commencement.IsZero() || lease.Commencement.After(now) {
		return Event{}, false
	}

	next := lease.Commencement
	for !next.After(now) {
		next = next.AddDate(0, months, 0)
	}
	if lease.Expiration != nil && next.After(*lease.Expiration) {
		return Event{}, false
	}
	return Event{
		LeaseID:     lease.ID,
		Date:        next,
		Type:        EventEscalation,
		Description: description,
	}, true
}

func obligationEventType(kind leaseschema.ObligationKind) EventType {
	switch kind {
	case leaseschema.ObligationTerminationNotice:
		return EventTerminationNotice
	case leaseschema.ObligationComplianceCheck, leaseschema.ObligationNotice:
		return EventComplianceCheck
	default:
		return EventComplianceCheck
	}
}

func finalize(ev *Event, now time.Time) {
	if ev.Date.Before(now) {
		ev.Status = StatusOverdue
	} else {
		ev.Status = StatusPending
	}

	days := noticeWindowDays
	if ev.Type == EventLeaseExpiration {
		days = expirationWindowDays
	}
	ev.DueWindow = &Window{
		Start: ev.Date.AddDate(0, 0, -days),
		End:   ev.Date,
	}
}
