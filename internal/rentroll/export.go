package rentroll

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ToCSV renders a rent roll as comma-joined rows with every field
// double-quoted.
func ToCSV(result PortfolioResult) string {
	var b strings.Builder
	writeCSVRow(&b, "lease_id", "property", "tenant", "year",
		"annual_rent", "monthly_rent", "cam", "taxes", "insurance",
		"total_annual", "total_monthly", "schedule_based")
	for _, e := range result.Entries {
		writeCSVRow(&b,
			e.LeaseID,
			e.PropertyName,
			e.TenantName,
			fmt.Sprintf("%d", e.Year),
			money(e.AnnualRent),
			money(e.MonthlyRent),
			money(e.CAM),
			money(e.Taxes),
			money(e.Insurance),
			money(e.TotalAnnual),
			money(e.TotalMonthly),
			fmt.Sprintf("%t", e.ScheduleBased),
		)
	}
	writeCSVRow(&b, "TOTAL", "", "", fmt.Sprintf("%d", result.Year),
		money(result.TotalAnnualRent), "", "", "", "", money(result.TotalAnnual), "", "")
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

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ToXLSX renders a rent roll workbook with one sheet of entries and, when
// exposure data is supplied, a second sheet of year/property buckets.
func ToXLSX(result PortfolioResult, exposure *Exposure) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Rent Roll"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Lease ID", "Property", "Tenant", "Year",
		"Annual Rent", "Monthly Rent", "CAM", "Taxes", "Insurance",
		"Total Annual", "Total Monthly", "Schedule Based"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, e := range result.Entries {
		row := []any{e.LeaseID, e.PropertyName, e.TenantName, e.Year,
			e.AnnualRent, e.MonthlyRent, e.CAM, e.Taxes, e.Insurance,
			e.TotalAnnual, e.TotalMonthly, e.ScheduleBased}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	totalRow := []any{"TOTAL", "", "", result.Year, result.TotalAnnualRent,
		"", "", "", "", result.TotalAnnual, "", ""}
	cell := fmt.Sprintf("A%d", len(result.Entries)+2)
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("write total row: %w", err)
	}

	if exposure != nil {
		if err := writeExposureSheet(f, exposure); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeExposureSheet(f *excelize.File, exposure *Exposure) error {
	const sheet = "Exposure"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create exposure sheet: %w", err)
	}

	header := []any{"Year", "Committed Rent"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write exposure header: %w", err)
	}
	row := 2
	for _, y := range exposure.ByYear {
		vals := []any{y.Year, y.Amount}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &vals); err != nil {
			return fmt.Errorf("write exposure year row: %w", err)
		}
		row++
	}

	row += 1
	propHeader := []any{"Property", "Committed Rent"}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &propHeader); err != nil {
		return fmt.Errorf("write property header: %w", err)
	}
	row++
	for _, p := range exposure.ByProperty {
		vals := []any{p.Property, p.Amount}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &vals); err != nil {
			return fmt.Errorf("write property row: %w", err)
		}
		row++
	}
	return nil
}
