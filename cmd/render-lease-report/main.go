package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/stayll/leasecore/internal/export"
)

func main() {
	inputPath := flag.String("input", "", "Path to a markdown scan report")
	leaseID := flag.String("lease-id", "", "Lease ID printed in the document header (defaults to the input file name)")
	outputPath := flag.String("output", "", "Path to write the rendered PDF")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}
	if *outputPath == "" {
		log.Fatal("missing required -output")
	}
	id := *leaseID
	if id == "" {
		base := filepath.Base(*inputPath)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	markdown, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pdf, err := export.NewChromiumPDFRenderer().Render(ctx, id, string(markdown))
	if err != nil {
		log.Fatalf("render pdf: %v", err)
	}
	if err := os.WriteFile(*outputPath, pdf, 0o644); err != nil {
		log.Fatalf("write pdf: %v", err)
	}
	log.Printf("wrote %d bytes to %s", len(pdf), *outputPath)
}
