package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/stayll/leasecore/internal/ingest"
	"github.com/stayll/leasecore/internal/leasefield"
)

func main() {
	inputPath := flag.String("input", "", "Path to lease document (PDF or plain text)")
	leaseID := flag.String("lease-id", "", "Lease ID to stamp on the scan (defaults to the input file name)")
	outputPath := flag.String("output", "", "Path to write the markdown report (defaults to stdout)")
	jsonOutputPath := flag.String("json-output", "", "Optional path to write the full scan result JSON")
	overridesPath := flag.String("catalog-overrides", "", "Path to YAML field catalog overrides")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}
	id := *leaseID
	if id == "" {
		base := filepath.Base(*inputPath)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	extracted, err := ingest.ExtractFile(ctx, *inputPath)
	if err != nil {
		log.Fatalf("extract text: %v", err)
	}
	log.Printf("extracted %d bytes via %s (truncated=%v)", len(extracted.Text), extracted.Method, extracted.Truncated)

	var opts []leasefield.ScannerOption
	if *overridesPath != "" {
		ov, err := leasefield.LoadOverrides(*overridesPath)
		if err != nil {
			log.Fatalf("load catalog overrides: %v", err)
		}
		defs, err := leasefield.ApplyOverrides(leasefield.Catalog(), ov)
		if err != nil {
			log.Fatalf("apply catalog overrides: %v", err)
		}
		opts = append(opts, leasefield.WithCatalog(defs))
	}

	result, err := leasefield.NewScanner(opts...).Scan(ctx, id, extracted.Text)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}

	if err := writeMarkdown(*outputPath, leasefield.BuildReport(result)); err != nil {
		log.Fatalf("write report: %v", err)
	}
	if *jsonOutputPath != "" {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encode scan result: %v", err)
		}
		if err := os.WriteFile(*jsonOutputPath, b, 0o644); err != nil {
			log.Fatalf("write json output: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
