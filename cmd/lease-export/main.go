package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stayll/leasecore/internal/compliance"
	"github.com/stayll/leasecore/internal/leaseschema"
	"github.com/stayll/leasecore/internal/rentroll"
	"github.com/stayll/leasecore/internal/verify"
)

func main() {
	dbPath := flag.String("db", "", "Path to the SQLite database with verified leases")
	kind := flag.String("kind", "rentroll", "Export kind: rentroll, exposure, or calendar")
	year := flag.Int("year", rentroll.CurrentYear(time.Now()), "Rent roll year")
	format := flag.String("format", "csv", "Output format: csv, json, xlsx (rentroll) or ics (calendar)")
	outputPath := flag.String("output", "", "Output file (defaults to stdout; required for xlsx)")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("missing required -db")
	}

	store, err := verify.NewSQLiteStore(*dbPath, verify.Config{})
	if err != nil {
		log.Fatalf("open store (%s): %v", *dbPath, err)
	}
	defer store.Close()

	schemas := loadSchemas(store)
	log.Printf("loaded %d leases from %s", len(schemas), *dbPath)

	switch *kind {
	case "rentroll":
		exportRentRoll(schemas, *year, *format, *outputPath)
	case "exposure":
		exportExposure(schemas, *format, *outputPath)
	case "calendar":
		exportCalendar(schemas, *format, *outputPath)
	default:
		log.Fatalf("unknown -kind %q", *kind)
	}
}

// loadSchemas rebuilds a structured lease from each stored lease's normalized
// field values. Leases with no usable fields still appear, with zero values.
func loadSchemas(store verify.API) []leaseschema.Lease {
	var schemas []leaseschema.Lease
	for _, l := range store.Leases() {
		fields, err := store.Fields(l.ID)
		if err != nil {
			log.Printf("skipping lease %s: %v", l.ID, err)
			continue
		}
		values := map[string]string{}
		for _, f := range fields {
			if f.ValueNormalized != nil {
				values[f.FieldName] = *f.ValueNormalized
			}
		}
		schemas = append(schemas, leaseschema.FromNormalized(l.ID, values))
	}
	return schemas
}

func exportRentRoll(schemas []leaseschema.Lease, year int, format, outputPath string) {
	result := rentroll.Portfolio(schemas, year)
	for _, e := range result.Errors {
		log.Printf("lease %s excluded: %s", e.LeaseID, e.Err)
	}

	switch format {
	case "csv":
		writeOut(outputPath, []byte(rentroll.ToCSV(result)))
	case "json":
		writeJSONOut(outputPath, result)
	case "xlsx":
		if outputPath == "" {
			log.Fatal("-output is required for xlsx")
		}
		exposure := rentroll.ComputeExposure(schemas, time.Now())
		f, err := rentroll.ToXLSX(result, &exposure)
		if err != nil {
			log.Fatalf("build workbook: %v", err)
		}
		if err := f.SaveAs(outputPath); err != nil {
			log.Fatalf("save workbook: %v", err)
		}
	default:
		log.Fatalf("unknown rentroll format %q", format)
	}
}

func exportExposure(schemas []leaseschema.Lease, format, outputPath string) {
	exposure := rentroll.ComputeExposure(schemas, time.Now())
	switch format {
	case "json":
		writeJSONOut(outputPath, exposure)
	default:
		log.Fatalf("exposure supports json only, got %q", format)
	}
}

func exportCalendar(schemas []leaseschema.Lease, format, outputPath string) {
	now := time.Now()
	var events []compliance.Event
	for _, schema := range schemas {
		events = append(events, compliance.Generate(schema, now)...)
	}

	switch format {
	case "csv":
		writeOut(outputPath, []byte(compliance.ToCSV(events)))
	case "ics":
		writeOut(outputPath, []byte(compliance.ToICal(events)))
	case "json":
		writeJSONOut(outputPath, map[string]any{"events": events})
	default:
		log.Fatalf("unknown calendar format %q", format)
	}
}

func writeOut(outputPath string, data []byte) {
	if outputPath == "" {
		if _, err := fmt.Print(string(data)); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func writeJSONOut(outputPath string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	writeOut(outputPath, append(b, '\n'))
}
