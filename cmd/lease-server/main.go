package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/stayll/leasecore/internal/httpapi"
	"github.com/stayll/leasecore/internal/leasefield"
	"github.com/stayll/leasecore/internal/verify"
)

func main() {
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides DB_PATH env var)")
	overridesFlag := flag.String("catalog-overrides", "", "path to YAML field catalog overrides")
	flag.Parse()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	shutdownTracing := setupTracing()
	defer shutdownTracing()

	// Resolve DB path: --db flag > DB_PATH env > empty (in-memory store).
	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}

	var store verify.API
	if dbPath != "" {
		ss, err := verify.NewSQLiteStore(dbPath, verify.Config{})
		if err != nil {
			log.Fatalf("failed to initialize sqlite store (%s): %v", dbPath, err)
		}
		defer ss.Close()
		store = ss
		log.Printf("using sqlite store at %s", dbPath)
	} else {
		store = verify.NewStore(verify.Config{})
		log.Printf("using in-memory store; pass --db or set DB_PATH to persist")
	}

	var scannerOpts []leasefield.ScannerOption
	if *overridesFlag != "" {
		ov, err := leasefield.LoadOverrides(*overridesFlag)
		if err != nil {
			log.Fatalf("load catalog overrides (%s): %v", *overridesFlag, err)
		}
		defs, err := leasefield.ApplyOverrides(leasefield.Catalog(), ov)
		if err != nil {
			log.Fatalf("apply catalog overrides: %v", err)
		}
		scannerOpts = append(scannerOpts, leasefield.WithCatalog(defs))
		log.Printf("field catalog overrides loaded from %s", *overridesFlag)
	}
	scanner := leasefield.NewScanner(scannerOpts...)

	h := httpapi.NewServer(store, scanner, time.Now)
	log.Printf("lease-server listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal(err)
	}
}

// setupTracing wires the OTLP trace exporter when OTEL_EXPORTER_OTLP_ENDPOINT
// is set. The exporter reads its endpoint and headers from the standard OTEL
// env vars; without an endpoint the default no-op provider stays in place.
func setupTracing() func() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(context.Background())
	if err != nil {
		log.Printf("otlp trace exporter disabled: %v", err)
		return func() {}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "lease-server"),
		)),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("trace provider shutdown: %v", err)
		}
	}
}
