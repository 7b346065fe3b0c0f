package compliance

import (
	"strings"
)

const dateLayout = "2006-01-02"

// ToCSV renders events as comma-joined rows with every field double-quoted.
func ToCSV(events []Event) string {
	var b strings.Builder
	writeCSVRow(&b, "lease_id", "date", "event_type", "description", "status")
	for _, ev := range events {
		writeCSVRow(&b,
			ev.LeaseID,
			ev.Date.Format(dateLayout),
			string(ev.Type),
			ev.Description,
			string(ev.Status),
		)
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ToICal renders a minimal iCalendar: one VEVENT per event, UID derived from
// the lease ID and event date.
func ToICal(events []Event) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//stayll//leasecore//EN\r\n")
	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString("UID:" + ev.LeaseID + "-" + ev.Date.Format(dateLayout) + "\r\n")
		b.WriteString("DTSTART;VALUE=DATE:" + ev.Date.Format("20060102") + "\r\n")
		b.WriteString("SUMMARY:" + escapeICalText(ev.Description) + "\r\n")
		b.WriteString("STATUS:" + strings.ToUpper(string(ev.Status)) + "\r\n")
		b.WriteString("END:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func escapeICalText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(s)
}
