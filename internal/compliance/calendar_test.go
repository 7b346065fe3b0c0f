package compliance

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleLease() leaseschema.Lease {
	exp := date(2026, time.December, 31)
	effective := date(2026, time.January, 1)
	return leaseschema.Lease{
		ID:           "lease-1",
		Commencement: date(2022, time.January, 1),
		Expiration:   &exp,
		RenewalOptions: []leaseschema.RenewalOption{
			{TermMonths: 60, NoticeDays: 90},
		},
		Escalations: []leaseschema.EscalationTerm{
			{ClauseText: "3% annually", Frequency: leaseschema.FreqAnnual, EffectiveDate: &effective},
		},
		Obligations: []leaseschema.Obligation{
			{Kind: leaseschema.ObligationComplianceCheck, Date: date(2025, time.March, 15), Description: "Insurance certificate renewal"},
			{Kind: leaseschema.ObligationTerminationNotice, Date: date(2026, time.June, 30), Description: "Early termination notice window"},
		},
	}
}

func TestGenerateAllRules(t *testing.T) {
	now := date(2025, time.June, 1)
	events := Generate(sampleLease(), now)

	if len(events) != 5 {
		t.Fatalf("events = %d, want 5", len(events))
	}

	byType := map[EventType]Event{}
	for _, ev := range events {
		byType[ev.Type] = ev
	}

	renewal := byType[EventRenewalNotice]
	if !renewal.Date.Equal(date(2026, time.October, 2)) {
		t.Fatalf("renewal notice date = %s, want 2026-10-02 (90 days before expiration)", renewal.Date)
	}
	escalation := byType[EventEscalation]
	if !escalation.Date.Equal(date(2026, time.January, 1)) {
		t.Fatalf("escalation date = %s, want explicit effective date", escalation.Date)
	}
	expiration := byType[EventLeaseExpiration]
	if !expiration.Date.Equal(date(2026, time.December, 31)) {
		t.Fatalf("expiration date = %s", expiration.Date)
	}
	check := byType[EventComplianceCheck]
	if check.Status != StatusOverdue {
		t.Fatalf("past obligation status = %s, want overdue", check.Status)
	}
	if expiration.Status != StatusPending {
		t.Fatalf("future expiration status = %s, want pending", expiration.Status)
	}

	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Fatalf("events not ordered by date at %d", i)
		}
	}
}

func TestGenerateDueWindows(t *testing.T) {
	now := date(2025, time.June, 1)
	events := Generate(sampleLease(), now)

	for _, ev := range events {
		if ev.DueWindow == nil {
			t.Fatalf("%s event has no due window", ev.Type)
		}
		days := 7
		if ev.Type == EventLeaseExpiration {
			days = 90
		}
		wantStart := ev.Date.AddDate(0, 0, -days)
		if !ev.DueWindow.Start.Equal(wantStart) || !ev.DueWindow.End.Equal(ev.Date) {
			t.Fatalf("%s due window = %s..%s, want %s..%s",
				ev.Type, ev.DueWindow.Start, ev.DueWindow.End, wantStart, ev.Date)
		}
	}
}

func TestGenerateRecurringEscalation(t *testing.T) {
	exp := date(2030, time.December, 31)
	lease := leaseschema.Lease{
		ID:           "lease-2",
		Commencement: date(2023, time.March, 1),
		Expiration:   &exp,
		Escalations: []leaseschema.EscalationTerm{
			{ClauseText: "annual CPI adjustment", Frequency: leaseschema.FreqAnnual},
		},
	}

	events := Generate(lease, date(2025, time.June, 1))
	var escalation *Event
	for i := range events {
		if events[i].Type == EventEscalation {
			escalation = &events[i]
		}
	}
	if escalation == nil {
		t.Fatal("no escalation event generated")
	}
	// Next anniversary of 2023-03-01 strictly after 2025-06-01.
	if !escalation.Date.Equal(date(2026, time.March, 1)) {
		t.Fatalf("next occurrence = %s, want 2026-03-01", escalation.Date)
	}

	// Exactly on an anniversary: "strictly after" moves to the next one.
	events = Generate(lease, date(2026, time.March, 1))
	for _, ev := range events {
		if ev.Type == EventEscalation && !ev.Date.Equal(date(2027, time.March, 1)) {
			t.Fatalf("occurrence on anniversary = %s, want 2027-03-01", ev.Date)
		}
	}
}

func TestGenerateFutureCommencementNoRecurrence(t *testing.T) {
	lease := leaseschema.Lease{
		ID:           "lease-3",
		Commencement: date(2027, time.January, 1),
		Escalations: []leaseschema.EscalationTerm{
			{Frequency: leaseschema.FreqAnnual},
		},
	}
	events := Generate(lease, date(2025, time.June, 1))
	for _, ev := range events {
		if ev.Type == EventEscalation {
			t.Fatal("lease that has not commenced must not schedule recurring escalations")
		}
	}
}

func TestGenerateIdempotentExceptStatus(t *testing.T) {
	lease := sampleLease()
	a := Generate(lease, date(2025, time.June, 1))
	b := Generate(lease, date(2026, time.November, 1))

	if len(a) != len(b) {
		t.Fatalf("event counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		x, y := a[i], b[i]
		x.Status, y.Status = "", ""
		if !reflect.DeepEqual(x, y) {
			t.Fatalf("event %d differs beyond status:\n%+v\n%+v", i, x, y)
		}
	}
}

func TestGenerateEmptySchema(t *testing.T) {
	events := Generate(leaseschema.Lease{ID: "lease-4"}, date(2025, time.June, 1))
	if len(events) != 0 {
		t.Fatalf("events = %d, want 0 for empty schema", len(events))
	}
}

func TestToCSV(t *testing.T) {
	events := Generate(sampleLease(), date(2025, time.June, 1))
	csv := ToCSV(events)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != len(events)+1 {
		t.Fatalf("lines = %d, want %d", len(lines), len(events)+1)
	}
	if lines[0] != `"lease_id","date","event_type","description","status"` {
		t.Fatalf("header = %s", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, `"lease-1",`) {
			t.Fatalf("row missing quoted lease id: %s", line)
		}
	}
}

func TestToICal(t *testing.T) {
	events := Generate(sampleLease(), date(2025, time.June, 1))
	ical := ToICal(events)

	if !strings.HasPrefix(ical, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ical, "END:VCALENDAR\r\n") {
		t.Fatal("missing calendar envelope")
	}
	if got := strings.Count(ical, "BEGIN:VEVENT"); got != len(events) {
		t.Fatalf("VEVENT count = %d, want %d", got, len(events))
	}
	if !strings.Contains(ical, "UID:lease-1-2026-12-31\r\n") {
		t.Fatal("missing expiration UID")
	}
	if !strings.Contains(ical, "DTSTART;VALUE=DATE:20261231\r\n") {
		t.Fatal("missing DTSTART")
	}
	if !strings.Contains(ical, "STATUS:OVERDUE\r\n") {
		t.Fatal("missing overdue status")
	}
}
