package ingest

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractByteFallback(t *testing.T) {
	// Not a parseable PDF, but carries printable runs long enough to keep.
	blob := []byte("%PDF-1.4\x00\x01\x02" +
		"This Lease Agreement is entered into by Acme Corp as Tenant." +
		"\x00\x03" +
		"Monthly Rent: $2,500 due on the first of each month." +
		"\x04\x05short\x06")

	out, err := Extract(context.Background(), blob)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out.Method != "byte-fallback" {
		t.Fatalf("method = %s, want byte-fallback", out.Method)
	}
	if !strings.Contains(out.Text, "Monthly Rent: $2,500") {
		t.Fatalf("text missing rent line: %q", out.Text)
	}
	if strings.Contains(out.Text, "short") {
		t.Fatal("runs under the length floor must be dropped")
	}
}

func TestExtractNothingFound(t *testing.T) {
	if _, err := Extract(context.Background(), []byte{0x00, 0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for blob with no printable runs")
	}
}

func TestExtractRejectsOversizedInput(t *testing.T) {
	blob := make([]byte, maxPDFBytes+1)
	if _, err := Extract(context.Background(), blob); err == nil {
		t.Fatal("expected error for oversized input")
	}
}

func TestExtractTruncatesLongText(t *testing.T) {
	run := strings.Repeat("All terms and conditions of this lease remain in effect. ", 12000)
	out, err := Extract(context.Background(), []byte("\x00"+run+"\x00"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !out.Truncated {
		t.Fatal("long text not marked truncated")
	}
	if len(out.Text) > maxTextRun {
		t.Fatalf("text = %d bytes, cap is %d", len(out.Text), maxTextRun)
	}
}

func TestTruncationKeepsRuneBoundary(t *testing.T) {
	// "€" is three bytes; the cap is not a multiple of three, so a naive
	// byte slice would split the last rune.
	run := strings.Repeat("€", maxTextRun/3+10)
	out := truncateExtraction(run, "byte-fallback")
	if !out.Truncated {
		t.Fatal("oversized text not marked truncated")
	}
	if !utf8.ValidString(out.Text) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if strings.ContainsRune(out.Text, utf8.RuneError) {
		t.Fatal("truncation introduced a replacement character")
	}
	if len(out.Text) > maxTextRun {
		t.Fatalf("text = %d bytes, cap is %d", len(out.Text), maxTextRun)
	}
}
