// Package ingest turns lease PDFs into plain text for the extraction
// pipeline. Structured extraction is tried first; a printable-byte sweep is
// the last resort for malformed files, so a bad PDF degrades to "little or
// no text found" instead of failing the document outright.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	maxPDFBytes = 20 * 1024 * 1024
	maxTextRun  = 500000
)

type ExtractionResult struct {
	Text      string
	Method    string
	Truncated bool
}

// ExtractFile reads a PDF from disk and extracts its text.
func ExtractFile(ctx context.Context, path string) (ExtractionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ExtractionResult{}, err
	}
	if info.Size() > maxPDFBytes {
		return ExtractionResult{}, fmt.Errorf("pdf too large: %d bytes", info.Size())
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{}, err
	}
	return Extract(ctx, blob)
}

// Extract pulls plain text from a PDF buffer. Context is checked between
// pages so a slow or adversarial document can be abandoned.
func Extract(ctx context.Context, blob []byte) (ExtractionResult, error) {
	if len(blob) > maxPDFBytes {
		return ExtractionResult{}, fmt.Errorf("pdf too large: %d bytes", len(blob))
	}

	if text, err := readPDFText(ctx, blob); err == nil && strings.TrimSpace(text) != "" {
		return truncateExtraction(text, "pdf-reader"), nil
	}

	fallback := extractPrintableText(blob)
	if strings.TrimSpace(fallback) == "" {
		return ExtractionResult{}, errors.New("no extractable text found")
	}
	return truncateExtraction(fallback, "byte-fallback"), nil
}

func readPDFText(ctx context.Context, blob []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// extractPrintableText sweeps the raw bytes for printable runs long enough
// to be real prose.
func extractPrintableText(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= 24 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	joined := strings.Join(runs, "\n")
	joined = strings.ReplaceAll(joined, "\x00", "")
	return strings.TrimSpace(joined)
}

func truncateExtraction(text, method string) ExtractionResult {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= maxTextRun {
		return ExtractionResult{Text: trimmed, Method: method}
	}
	// Back the cut up to a rune boundary so a multi-byte sequence is never
	// split into a replacement character.
	cut := maxTextRun
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return ExtractionResult{
		Text:      trimmed[:cut],
		Method:    method,
		Truncated: true,
	}
}
