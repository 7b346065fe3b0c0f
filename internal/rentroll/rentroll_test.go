package rentroll

import (
	"strings"
	"testing"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func scheduledLease(id string, entries ...leaseschema.RentScheduleEntry) leaseschema.Lease {
	exp := date(2030, time.December, 31)
	return leaseschema.Lease{
		ID:           id,
		PropertyName: "100 Main St",
		TenantName:   "Acme Corp",
		Commencement: date(2024, time.January, 1),
		Expiration:   &exp,
		RentSchedule: entries,
	}
}

func TestForYearConservation(t *testing.T) {
	// A schedule fully contained in the target year allocates its literal
	// annual total, with no proration error at the boundary.
	lease := scheduledLease("lease-1", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.AnnualRent != 30000 {
		t.Fatalf("annual rent = %f, want exactly 30000", entry.AnnualRent)
	}
	if entry.MonthlyRent != 2500 {
		t.Fatalf("monthly rent = %f, want 2500", entry.MonthlyRent)
	}
	if !entry.ScheduleBased {
		t.Fatal("schedule-based entry not marked")
	}
}

func TestForYearPartialYearAligned(t *testing.T) {
	lease := scheduledLease("lease-2", leaseschema.RentScheduleEntry{
		Start: date(2025, time.March, 1), End: date(2025, time.August, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.AnnualRent != 15000 {
		t.Fatalf("annual rent = %f, want 15000 for six whole months", entry.AnnualRent)
	}
}

func TestForYearMultiYearSchedule(t *testing.T) {
	lease := scheduledLease("lease-3", leaseschema.RentScheduleEntry{
		Start: date(2024, time.July, 1), End: date(2026, time.June, 30),
		Amount: 2000, Frequency: leaseschema.FreqMonthly,
	})
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.AnnualRent != 24000 {
		t.Fatalf("annual rent = %f, want 24000 for the full middle year", entry.AnnualRent)
	}
}

func TestForYearFrequencies(t *testing.T) {
	quarterly := scheduledLease("lease-4", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 7500, Frequency: leaseschema.FreqQuarterly,
	})
	entry, err := ForYear(quarterly, 2025)
	if err != nil {
		t.Fatalf("ForYear quarterly: %v", err)
	}
	if entry.AnnualRent != 30000 {
		t.Fatalf("quarterly annual rent = %f, want 30000", entry.AnnualRent)
	}

	annual := scheduledLease("lease-5", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.June, 30),
		Amount: 120000, Frequency: leaseschema.FreqAnnual,
	})
	entry, err = ForYear(annual, 2025)
	if err != nil {
		t.Fatalf("ForYear annual: %v", err)
	}
	if entry.AnnualRent != 60000 {
		t.Fatalf("half-year annual-frequency rent = %f, want 60000", entry.AnnualRent)
	}
}

func TestForYearUnalignedProration(t *testing.T) {
	lease := scheduledLease("lease-6", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 15), End: date(2025, time.February, 14),
		Amount: 3000, Frequency: leaseschema.FreqMonthly,
	})
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	// 31 inclusive days / 30.44 * 3000.
	if entry.AnnualRent != 3055.19 {
		t.Fatalf("annual rent = %f, want 3055.19", entry.AnnualRent)
	}
}

func TestForYearFallbackWithoutSchedule(t *testing.T) {
	exp := date(2030, time.December, 31)
	lease := leaseschema.Lease{
		ID:              "lease-7",
		Commencement:    date(2025, time.July, 1), // mid-year start is ignored by the fallback
		Expiration:      &exp,
		BaseRentMonthly: 2500,
	}
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.AnnualRent != 30000 {
		t.Fatalf("fallback annual rent = %f, want base_rent*12", entry.AnnualRent)
	}
	if entry.ScheduleBased {
		t.Fatal("fallback entry must not claim schedule precision")
	}
}

func TestForYearAddOns(t *testing.T) {
	lease := scheduledLease("lease-8", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	lease.CAMMonthly = 350
	lease.TaxesMonthly = 200
	lease.InsuranceMonthly = 150

	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.CAM != 4200 || entry.Taxes != 2400 || entry.Insurance != 1800 {
		t.Fatalf("add-ons = %f/%f/%f, want 4200/2400/1800", entry.CAM, entry.Taxes, entry.Insurance)
	}
	if !entry.AddOnsApproximate {
		t.Fatal("flat add-ons must be flagged approximate")
	}
	if entry.TotalAnnual != 38400 {
		t.Fatalf("total annual = %f, want 38400", entry.TotalAnnual)
	}
	if entry.TotalMonthly != 3200 {
		t.Fatalf("total monthly = %f, want 3200", entry.TotalMonthly)
	}
}

func TestForYearNoOverlap(t *testing.T) {
	lease := scheduledLease("lease-9", leaseschema.RentScheduleEntry{
		Start: date(2026, time.January, 1), End: date(2026, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	entry, err := ForYear(lease, 2025)
	if err != nil {
		t.Fatalf("ForYear: %v", err)
	}
	if entry.AnnualRent != 0 {
		t.Fatalf("annual rent = %f, want 0 with no overlap", entry.AnnualRent)
	}
}

func TestPortfolioScopesErrors(t *testing.T) {
	good := scheduledLease("lease-good", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	bad := leaseschema.Lease{ID: "lease-bad", BaseRentMonthly: -5}

	result := Portfolio([]leaseschema.Lease{good, bad}, 2025)
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	if len(result.Errors) != 1 || result.Errors[0].LeaseID != "lease-bad" {
		t.Fatalf("errors = %+v, want one scoped to lease-bad", result.Errors)
	}
	if result.TotalAnnualRent != 30000 {
		t.Fatalf("total = %f, want 30000", result.TotalAnnualRent)
	}
}

func TestComputeExposure(t *testing.T) {
	now := date(2025, time.January, 1)
	exp := date(2027, time.January, 1)
	lease := leaseschema.Lease{
		ID:              "lease-exp",
		PropertyName:    "100 Main St",
		Expiration:      &exp,
		BaseRentMonthly: 10000,
	}

	out := ComputeExposure([]leaseschema.Lease{lease}, now)
	if out.TotalCommitted != 240000 {
		t.Fatalf("total committed = %f, want 240000", out.TotalCommitted)
	}
	if len(out.ByYear) != 2 {
		t.Fatalf("year buckets = %d, want 2", len(out.ByYear))
	}
	for _, y := range out.ByYear {
		if y.Amount != 120000 {
			t.Fatalf("year %d = %f, want 120000", y.Year, y.Amount)
		}
	}
	if len(out.ByProperty) != 1 || out.ByProperty[0].Property != "100 Main St" {
		t.Fatalf("property buckets = %+v", out.ByProperty)
	}
}

func TestComputeExposureHorizonCap(t *testing.T) {
	now := date(2025, time.January, 1)
	exp := date(2055, time.January, 1)
	lease := leaseschema.Lease{ID: "lease-long", Expiration: &exp, BaseRentMonthly: 10000}

	out := ComputeExposure([]leaseschema.Lease{lease}, now)
	if out.TotalCommitted != 1200000 {
		t.Fatalf("total committed = %f, want 10 capped years of 120000", out.TotalCommitted)
	}
	if len(out.ByYear) != ExposureHorizonYears {
		t.Fatalf("year buckets = %d, want %d", len(out.ByYear), ExposureHorizonYears)
	}
}

func TestComputeExposureSkipsOpenEnded(t *testing.T) {
	now := date(2025, time.January, 1)
	out := ComputeExposure([]leaseschema.Lease{
		{ID: "no-expiration", BaseRentMonthly: 10000},
	}, now)
	if out.TotalCommitted != 0 {
		t.Fatalf("open-ended lease contributed %f, want 0", out.TotalCommitted)
	}
}

func TestToCSV(t *testing.T) {
	lease := scheduledLease("lease-csv", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	result := Portfolio([]leaseschema.Lease{lease}, 2025)
	csv := ToCSV(result)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + entry + total", len(lines))
	}
	if !strings.Contains(lines[1], `"lease-csv"`) || !strings.Contains(lines[1], `"30000.00"`) {
		t.Fatalf("entry row = %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], `"TOTAL"`) {
		t.Fatalf("total row = %s", lines[2])
	}
}

func TestToXLSX(t *testing.T) {
	lease := scheduledLease("lease-xlsx", leaseschema.RentScheduleEntry{
		Start: date(2025, time.January, 1), End: date(2025, time.December, 31),
		Amount: 2500, Frequency: leaseschema.FreqMonthly,
	})
	result := Portfolio([]leaseschema.Lease{lease}, 2025)
	exposure := ComputeExposure([]leaseschema.Lease{lease}, date(2025, time.January, 1))

	f, err := ToXLSX(result, &exposure)
	if err != nil {
		t.Fatalf("ToXLSX: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Rent Roll", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "lease-xlsx" {
		t.Fatalf("A2 = %q, want lease-xlsx", got)
	}
	if idx, _ := f.GetSheetIndex("Exposure"); idx < 0 {
		t.Fatal("exposure sheet missing")
	}
}
