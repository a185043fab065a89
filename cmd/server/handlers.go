package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/roicalc/internal/reference"
	"github.com/Simplici0/roicalc/internal/roi"
)

const maxRequestBytes = 1 << 20

type errorResponse struct {
	Error  string                `json:"error"`
	Errors []roi.ValidationError `json:"errors,omitempty"`
}

type validateResponse struct {
	Errors []roi.ValidationError `json:"errors"`
}

// calculation is a resolved request: the engine output plus the reference
// rows it was computed against.
type calculation struct {
	country  reference.Country
	scenario reference.Scenario
	results  roi.Results
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, ok := decodeInputs(w, body)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{Errors: roi.Validate(in)})
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	key := cacheKey(body)
	if cached, hit := s.cache.Get(r.Context(), key); hit {
		w.Header().Set("X-Cache", "HIT")
		writeRawJSON(w, http.StatusOK, []byte(cached))
		return
	}

	in, ok := decodeInputs(w, body)
	if !ok {
		return
	}
	calc, err := s.calculate(r.Context(), in)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	payload, err := json.Marshal(calc.results)
	if err != nil {
		log.Printf("encode results: %v", err)
		http.Error(w, "failed to encode results", http.StatusInternalServerError)
		return
	}
	if err := s.cache.Set(r.Context(), key, string(payload)); err != nil {
		log.Printf("cache results: %v", err)
	}

	w.Header().Set("X-Cache", "MISS")
	writeRawJSON(w, http.StatusOK, payload)
}

func (s *server) handleCalculateText(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, ok := decodeInputs(w, body)
	if !ok {
		return
	}
	calc, err := s.calculate(r.Context(), in)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, buildResultsText(calc))
}

// handleCountries lists active countries; ?q= narrows the list to names,
// codes or currencies containing the query.
func (s *server) handleCountries(w http.ResponseWriter, r *http.Request) {
	var (
		countries []reference.Country
		err       error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		countries, err = s.reference.SearchCountries(r.Context(), q)
	} else {
		countries, err = s.reference.ListCountries(r.Context())
	}
	if err != nil {
		log.Printf("list countries: %v", err)
		http.Error(w, "failed to load countries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

func (s *server) handleCountry(w http.ResponseWriter, r *http.Request) {
	country, err := s.reference.CountryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

func (s *server) handleCountryByCode(w http.ResponseWriter, r *http.Request) {
	country, err := s.reference.CountryByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

func (s *server) handleBusinessTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.reference.ListBusinessTypes(r.Context())
	if err != nil {
		log.Printf("list business types: %v", err)
		http.Error(w, "failed to load business types", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handleScenario(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.reference.ScenarioByID(r.Context(), chi.URLParam(r, "typeID"), chi.URLParam(r, "scenarioID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

// calculate reports blocking findings before any reference lookup.
func (s *server) calculate(ctx context.Context, in roi.Inputs) (calculation, error) {
	findings := roi.Validate(in)
	if roi.HasErrors(findings) {
		return calculation{}, &roi.InputError{Errors: roi.Blocking(findings)}
	}

	country, err := s.reference.CountryByID(ctx, in.Country)
	if err != nil {
		return calculation{}, err
	}
	scenario, err := s.reference.ScenarioByID(ctx, in.BusinessType, in.Scenario)
	if err != nil {
		return calculation{}, err
	}

	results, err := roi.Calculate(in, country, scenario)
	if err != nil {
		return calculation{}, err
	}
	return calculation{country: country, scenario: scenario, results: results}, nil
}

func buildResultsText(calc calculation) string {
	f := roi.Format(calc.results, calc.country.CurrencySymbol)
	r := calc.results

	var b strings.Builder
	fmt.Fprintf(&b, "ROI report: %s in %s (%s)\n", calc.scenario.Name, calc.country.Name, calc.country.Currency)
	fmt.Fprintf(&b, "ROI: %s\n", f["roi"])
	fmt.Fprintf(&b, "Net profit: %s\n", f["netProfit"])
	fmt.Fprintf(&b, "Gross profit: %s\n", f["grossProfit"])
	fmt.Fprintf(&b, "Revenue: %s\n", f["totalRevenue"])
	fmt.Fprintf(&b, "Costs: %s\n", f["totalCosts"])
	fmt.Fprintf(&b, "Tax: %s (effective %s)\n", f["taxAmount"], f["effectiveTaxRate"])
	fmt.Fprintf(&b, "Initial investment: %s\n", f["initialInvestment"])
	fmt.Fprintf(&b, "Break-even: %s\n", f["breakEvenMonth"])

	b.WriteString("\nCustomer metrics:\n")
	fmt.Fprintf(&b, "- Lifetime value: %s\n", f["customerLifetimeValue"])
	fmt.Fprintf(&b, "- Payback period: %s\n", f["paybackPeriod"])
	fmt.Fprintf(&b, "- Customers needed: %s\n", f["customersNeeded"])

	if len(r.RiskFactors) > 0 {
		b.WriteString("\nRisks:\n")
		for _, risk := range r.RiskFactors {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", risk.Impact, risk.Factor, risk.Description)
		}
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", rec.Category, rec.Suggestion, rec.PotentialImpact)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w.Error())
		}
	}

	return b.String()
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read request body"})
		return nil, false
	}
	return body, true
}

func decodeInputs(w http.ResponseWriter, body []byte) (roi.Inputs, bool) {
	var in roi.Inputs
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return roi.Inputs{}, false
	}
	return in, true
}

// cacheKey fingerprints a request body. Byte-different bodies with the same
// meaning simply miss.
func cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func writeCalculationError(w http.ResponseWriter, err error) {
	var inputErr *roi.InputError
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  roi.ErrInvalidInput.Error(),
			Errors: inputErr.Errors,
		})
	case errors.Is(err, reference.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Printf("calculate: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "calculation failed"})
	}
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, reference.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	log.Printf("reference lookup: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load reference data"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeRawJSON(w, status, payload)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
