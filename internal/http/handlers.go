package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"mygoal/internal/core"
)

// Monetary values cross the API as decimal strings so clients never deal
// in raw cents.

type transactionRequest struct {
	Description string `json:"description"`
	Value       string `json:"value"`
	Kind        string `json:"kind"`
	Category    string `json:"category,omitempty"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type incomeEntry struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Timestamp   string `json:"timestamp"`
}

type incomeResponse struct {
	Items []incomeEntry `json:"items"`
}

type summaryResponse struct {
	TotalIncome    string `json:"total_income"`
	TotalExpense   string `json:"total_expense"`
	NetPosition    string `json:"net_position"`
	TotalAllocated string `json:"total_allocated"`
	FreeBalance    string `json:"free_balance"`
	MonthlyCost    string `json:"monthly_cost"`
}

type averagesResponse struct {
	AvgMonthlyIncome    string `json:"avg_monthly_income"`
	AvgMonthlyAllocated string `json:"avg_monthly_allocated"`
}

type monthlyCostRequest struct {
	Value string `json:"value"`
}

type goalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Deadline string `json:"deadline"`
	Category string `json:"category,omitempty"`
}

type goalResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Current   string `json:"current"`
	Target    string `json:"target"`
	Deadline  string `json:"deadline"`
	Category  string `json:"category"`
	Icon      string `json:"icon"`
	CreatedAt string `json:"created_at"`
}

type goalsResponse struct {
	Items []goalResponse `json:"items"`
}

type balanceRequest struct {
	// Delta is a signed decimal: positive allocates, negative withdraws.
	Delta string `json:"delta"`
}

type goalUpdateRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

type metricsResponse struct {
	MonthsRemaining      int     `json:"months_remaining"`
	MonthsElapsed        int     `json:"months_elapsed"`
	AvgContribution      string  `json:"avg_contribution"`
	RemainingAmount      string  `json:"remaining_amount"`
	RequiredContribution string  `json:"required_contribution"`
	EstimatedMonths      float64 `json:"estimated_months_to_completion"`
	Degraded             bool    `json:"degraded"`
	Reason               string  `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	amount, err := core.ParseDecimal(req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.ledger.RecordTransaction(r.Context(), core.Transaction{
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Kind:        core.Kind(req.Kind),
		Category:    strings.TrimSpace(req.Category),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleCurrentMonthIncome(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.CurrentMonthIncome(r.Context(), time.Now())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := incomeResponse{Items: make([]incomeEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Items = append(resp.Items, incomeEntry{
			ID:          e.ID,
			Description: e.Description,
			Value:       e.Amount.Decimal(),
			Timestamp:   e.CreatedAt.Format(core.TimestampLayout),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.FinancialSummary(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryResponse{
		TotalIncome:    summary.TotalIncome.Decimal(),
		TotalExpense:   summary.TotalExpense.Decimal(),
		NetPosition:    summary.NetPosition.Decimal(),
		TotalAllocated: summary.TotalAllocated.Decimal(),
		FreeBalance:    summary.FreeBalance.Decimal(),
		MonthlyCost:    summary.MonthlyCost.Decimal(),
	})
}

func (s *Server) handleAverages(w http.ResponseWriter, r *http.Request) {
	averages, err := s.reports.HistoricalAverages(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, averagesResponse{
		AvgMonthlyIncome:    averages.AvgMonthlyIncome.Decimal(),
		AvgMonthlyAllocated: averages.AvgMonthlyAllocated.Decimal(),
	})
}

func (s *Server) handleSetMonthlyCost(w http.ResponseWriter, r *http.Request) {
	var req monthlyCostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	value, err := core.ParseDecimal(req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.ledger.SetMonthlyCost(r.Context(), value); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	target, err := core.ParseDecimal(req.Target)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	goal, err := s.goals.Create(r.Context(), req.Name, target, req.Deadline, strings.TrimSpace(req.Category))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := goalsResponse{Items: make([]goalResponse, 0, len(goals))}
	for _, g := range goals {
		resp.Items = append(resp.Items, toGoalResponse(g))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoalMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := goalID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid goal id"})
		return
	}

	result, err := s.goals.Metrics(r.Context(), id, time.Now())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	m := result.Metrics
	respondJSON(w, http.StatusOK, metricsResponse{
		MonthsRemaining:      m.MonthsRemaining,
		MonthsElapsed:        m.MonthsElapsed,
		AvgContribution:      m.AvgContribution.Decimal(),
		RemainingAmount:      m.RemainingAmount.Decimal(),
		RequiredContribution: m.RequiredContribution.Decimal(),
		EstimatedMonths:      m.EstimatedMonths,
		Degraded:             result.Degraded,
		Reason:               result.Reason,
	})
}

func (s *Server) handleAdjustGoalBalance(w http.ResponseWriter, r *http.Request) {
	id, err := goalID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid goal id"})
		return
	}

	var req balanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	delta, err := parseSignedDecimal(req.Delta)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.goals.AdjustBalance(r.Context(), id, delta); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := goalID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid goal id"})
		return
	}

	var req goalUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	target, err := core.ParseDecimal(req.Target)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.goals.UpdateDetails(r.Context(), id, req.Name, target); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := goalID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid goal id"})
		return
	}

	if err := s.goals.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:        g.ID,
		Name:      g.Name,
		Current:   g.Current.Decimal(),
		Target:    g.Target.Decimal(),
		Deadline:  g.Deadline,
		Category:  g.Category,
		Icon:      g.Icon,
		CreatedAt: g.CreatedAt,
	}
}

func goalID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// parseSignedDecimal parses a decimal string that may carry a leading
// minus sign. The unsigned parser stays strict for stored values; the
// sign only exists for balance adjustments.
func parseSignedDecimal(s string) (core.Money, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		m, err := core.ParseDecimal(s[1:])
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: -m.Cents}, nil
	}
	return core.ParseDecimal(s)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrGoalNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case core.IsValidationError(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
