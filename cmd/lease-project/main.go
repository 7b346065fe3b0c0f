package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stayll/leasecore/internal/escalation"
)

func main() {
	clause := flag.String("clause", "", "Escalation clause text to parse")
	rent := flag.Float64("rent", 0, "Starting annual rent in dollars")
	startYear := flag.Int("start-year", time.Now().Year(), "First calendar year of the projection")
	horizon := flag.Int("horizon", 5, "Projection horizon in years")
	discountRate := flag.Float64("discount-rate", escalation.DefaultDiscountRate, "Discount rate for NPV")
	cpiRate := flag.Float64("cpi-rate", 0.03, "Assumed CPI rate for CPI-linked clauses")
	asJSON := flag.Bool("json", false, "Emit the projection as JSON instead of a table")
	flag.Parse()

	if *clause == "" {
		log.Fatal("missing required -clause")
	}
	if *rent <= 0 {
		log.Fatal("missing required -rent (must be positive)")
	}

	rule := escalation.ParseClause(*clause)
	if rule.Type == escalation.RuleNone {
		log.Printf("clause did not match any known escalation shape; projecting flat rent")
	}

	years, err := escalation.Project(escalation.ProjectionInput{
		Rule:               rule,
		StartingAnnualRent: *rent,
		StartYear:          *startYear,
		HorizonYears:       *horizon,
		CPIRate:            *cpiRate,
	})
	if err != nil {
		log.Fatalf("project: %v", err)
	}

	npv := escalation.NPV(years, *discountRate)
	effective, effectiveOK := escalation.EffectiveRate(years)

	if *asJSON {
		out := map[string]any{
			"rule":  rule,
			"years": years,
			"npv":   npv,
		}
		if effectiveOK {
			out["effective_rate"] = effective
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("encode projection: %v", err)
		}
		return
	}

	fmt.Printf("Rule: %s", rule.Type)
	if rule.Rate != 0 {
		fmt.Printf(" (rate %.4f, %s)", rule.Rate, rule.Frequency)
	} else if rule.Amount != 0 {
		fmt.Printf(" (amount $%.2f, %s)", rule.Amount, rule.Frequency)
	}
	fmt.Println()

	fmt.Printf("%-6s %-6s %14s %14s %16s\n", "Index", "Year", "Annual Rent", "Increase", "Cumulative")
	for _, y := range years {
		fmt.Printf("%-6d %-6d %14.2f %14.2f %16.2f\n",
			y.YearIndex, y.CalendarYear, y.AnnualRent, y.EscalationAmount, y.CumulativeRent)
	}
	fmt.Printf("\nNPV at %.2f%%: %.2f\n", *discountRate*100, npv)
	if effectiveOK {
		fmt.Printf("Effective annual rate: %.4f%%\n", effective*100)
	}
}
