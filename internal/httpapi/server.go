package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stayll/leasecore/internal/compliance"
	"github.com/stayll/leasecore/internal/escalation"
	"github.com/stayll/leasecore/internal/leasefield"
	"github.com/stayll/leasecore/internal/leaseschema"
	"github.com/stayll/leasecore/internal/rentroll"
	"github.com/stayll/leasecore/internal/verify"
)

type Server struct {
	store   verify.API
	scanner *leasefield.Scanner
	clock   func() time.Time
}

func NewServer(store verify.API, scanner *leasefield.Scanner, clock func() time.Time) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	s := &Server{store: store, scanner: scanner, clock: clock}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/leases", s.handleListLeases)
	mux.HandleFunc("/v1/leases/", s.handleLeaseSubtree)
	mux.HandleFunc("/v1/rentroll", s.handleRentRoll)
	mux.HandleFunc("/v1/exposure", s.handleExposure)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *verify.Error
	if errors.As(err, &ve) {
		writeJSON(w, ve.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    ve.Code,
				"message": ve.Message,
			},
		})
		return
	}
	status := 500
	code := verify.CodeInternal
	if errors.Is(err, escalation.ErrInvalidInput) {
		status = 400
		code = verify.CodeValidation
	}
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": err.Error(),
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return verify.NewValidationError("read body: %v", err)
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return verify.NewValidationError("invalid json: %v", err)
	}
	return nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) handleListLeases(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{"leases": s.store.Leases()})
}

func (s *Server) handleLeaseSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/leases/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	leaseID := segments[0]

	switch {
	case len(segments) == 1:
		s.handleLeaseDetail(w, r, leaseID)
	case len(segments) == 2 && segments[1] == "scan":
		s.handleScan(w, r, leaseID)
	case len(segments) == 2 && segments[1] == "fields":
		s.handleFields(w, r, leaseID)
	case len(segments) == 4 && segments[1] == "fields" && segments[3] == "approve":
		s.handleApprove(w, r, leaseID, segments[2])
	case len(segments) == 4 && segments[1] == "fields" && segments[3] == "edit":
		s.handleEdit(w, r, leaseID, segments[2])
	case len(segments) == 2 && segments[1] == "events":
		s.handleEvents(w, r, leaseID)
	case len(segments) == 2 && segments[1] == "report":
		s.handleReport(w, r, leaseID)
	case len(segments) == 2 && segments[1] == "calendar":
		s.handleCalendar(w, r, leaseID)
	case len(segments) == 2 && segments[1] == "projection":
		s.handleProjection(w, r, leaseID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleLeaseDetail(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	lease, err := s.store.Lease(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := s.store.Fields(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"lease": lease, "fields": fields})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text  string `json:"text"`
		Actor string `json:"actor"`
		Force bool   `json:"force"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	scan, err := s.scanner.Scan(r.Context(), leaseID, req.Text)
	if err != nil {
		writeError(w, verify.NewValidationError("scan: %v", err))
		return
	}
	lease, fields, err := s.store.ApplyScan(scan, req.Actor, req.Force)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":     true,
		"lease":  lease,
		"fields": fields,
		"scan":   scan,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	fields, err := s.store.Fields(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"fields": fields})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, leaseID, fieldName string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Actor string `json:"actor"`
		Note  string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	field, err := s.store.Approve(leaseID, fieldName, req.Actor, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	lease, err := s.store.Lease(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "field": field, "lease": lease})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, leaseID, fieldName string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Value string `json:"value"`
		Actor string `json:"actor"`
		Note  string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	field, err := s.store.Edit(leaseID, fieldName, req.Value, req.Actor, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	lease, err := s.store.Lease(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "field": field, "lease": lease})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if _, err := s.store.Lease(leaseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"events": s.store.Events(leaseID)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	scan, err := s.scanResultFromStore(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(200)
	_, _ = w.Write([]byte(leasefield.BuildReport(scan)))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	schema, err := s.schemaForLease(leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	events := compliance.Generate(schema, s.clock())

	switch strings.TrimSpace(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, 200, map[string]any{"lease_id": leaseID, "events": events})
	case "ics":
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(compliance.ToICal(events)))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(compliance.ToCSV(events)))
	default:
		writeError(w, verify.NewValidationError("unknown calendar format %q", r.URL.Query().Get("format")))
	}
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request, leaseID string) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Clause             string                `json:"clause"`
		StartingAnnualRent float64               `json:"starting_annual_rent"`
		StartYear          int                   `json:"start_year"`
		HorizonYears       int                   `json:"horizon_years"`
		DiscountRate       *float64              `json:"discount_rate"`
		CPIRate            float64               `json:"cpi_rate"`
		Scenarios          []escalation.Scenario `json:"scenarios"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.store.Lease(leaseID); err != nil {
		writeError(w, err)
		return
	}

	discount := escalation.DefaultDiscountRate
	if req.DiscountRate != nil {
		discount = *req.DiscountRate
	}
	if req.StartYear == 0 {
		req.StartYear = s.clock().Year()
	}

	if len(req.Scenarios) > 0 {
		projections, err := escalation.Compare(req.StartingAnnualRent, req.StartYear, req.HorizonYears, discount, req.Scenarios)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"lease_id": leaseID, "scenarios": projections})
		return
	}

	rule := escalation.ParseClause(req.Clause)
	years, err := escalation.Project(escalation.ProjectionInput{
		Rule:               rule,
		StartingAnnualRent: req.StartingAnnualRent,
		StartYear:          req.StartYear,
		HorizonYears:       req.HorizonYears,
		CPIRate:            req.CPIRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	payload := map[string]any{
		"lease_id": leaseID,
		"rule":     rule,
		"years":    years,
		"npv":      escalation.NPV(years, discount),
	}
	if rate, ok := escalation.EffectiveRate(years); ok {
		payload["effective_rate"] = rate
	} else {
		payload["effective_rate"] = nil
	}
	if rule.Type == escalation.RuleNone && strings.TrimSpace(req.Clause) != "" {
		payload["needs_review"] = "escalation clause could not be parsed; no escalation applied"
	}
	writeJSON(w, 200, payload)
}

func (s *Server) handleRentRoll(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	year := parseInt(r.URL.Query().Get("year"), s.clock().Year())

	var leases []leaseschema.Lease
	for _, l := range s.store.Leases() {
		schema, err := s.schemaForLease(l.ID)
		if err != nil {
			continue
		}
		leases = append(leases, schema)
	}
	result := rentroll.Portfolio(leases, year)

	switch strings.TrimSpace(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, 200, result)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte(rentroll.ToCSV(result)))
	default:
		writeError(w, verify.NewValidationError("unknown rent roll format %q", r.URL.Query().Get("format")))
	}
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	var leases []leaseschema.Lease
	for _, l := range s.store.Leases() {
		schema, err := s.schemaForLease(l.ID)
		if err != nil {
			continue
		}
		leases = append(leases, schema)
	}
	writeJSON(w, 200, rentroll.ComputeExposure(leases, s.clock()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":     true,
		"leases": len(s.store.Leases()),
		"time":   s.clock().UTC(),
	})
}

// schemaForLease assembles a structured schema from the lease's stored
// normalized field values.
func (s *Server) schemaForLease(leaseID string) (leaseschema.Lease, error) {
	fields, err := s.store.Fields(leaseID)
	if err != nil {
		return leaseschema.Lease{}, err
	}
	values := map[string]string{}
	for _, f := range fields {
		if f.ValueNormalized != nil {
			values[f.FieldName] = *f.ValueNormalized
		}
	}
	return leaseschema.FromNormalized(leaseID, values), nil
}

// scanResultFromStore rebuilds a report-ready scan view from persisted
// fields. Extraction telemetry that is not persisted (pattern counts) is
// absent; the report renders what verification retained.
func (s *Server) scanResultFromStore(leaseID string) (leasefield.ScanResult, error) {
	lease, err := s.store.Lease(leaseID)
	if err != nil {
		return leasefield.ScanResult{}, err
	}
	fields, err := s.store.Fields(leaseID)
	if err != nil {
		return leasefield.ScanResult{}, err
	}

	scan := leasefield.ScanResult{
		LeaseID:           leaseID,
		OverallConfidence: lease.Confidence,
	}
	for _, f := range fields {
		scan.Fields = append(scan.Fields, leasefield.Assessment{
			FieldName:       f.FieldName,
			Priority:        f.Priority,
			Found:           f.ValueText != nil,
			ValueText:       f.ValueText,
			ValueNormalized: f.ValueNormalized,
			FormatValid:     f.ValueText != nil && f.State != verify.StateRuleFail,
			Confidence:      f.Confidence,
			ReasonCodes:     f.ReasonCodes,
			Source:          f.Source,
		})
	}
	scan.Metadata.FieldsTotal = len(scan.Fields)
	for _, a := range scan.Fields {
		if a.Found {
			scan.Metadata.FieldsFound++
		}
	}
	return scan, nil
}
