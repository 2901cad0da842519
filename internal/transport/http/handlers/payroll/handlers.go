package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/payroll"
	"hrpay/internal/platform/metrics"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Svc     *payroll.Service
	Metrics *metrics.Collector
	// Batch endpoints need the Postgres store; calculate-only deployments
	// (YAML configuration, no database) disable them.
	BatchEnabled bool
}

func NewHandler(svc *payroll.Service, collector *metrics.Collector, batchEnabled bool) *Handler {
	return &Handler{Svc: svc, Metrics: collector, BatchEnabled: batchEnabled}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		if h.BatchEnabled {
			r.Post("/periods/{periodID}/run", h.handleRunPeriod)
			r.Get("/periods/{periodID}/payslips/{employeeID}/download", h.handleDownloadPayslip)
		}
	})
}

type calculatePayload struct {
	GrossSalary          decimal.Decimal `json:"gross_salary"`
	AdditionalIncome     decimal.Decimal `json:"additional_income"`
	HasSpouse            bool            `json:"has_spouse"`
	ChildCount           int             `json:"child_count"`
	ProvidentFund        decimal.Decimal `json:"provident_fund"`
	AdditionalDeductions decimal.Decimal `json:"additional_deductions"`
	TaxYear              int             `json:"tax_year"`
	PayPeriodDate        string          `json:"pay_period_date"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}

	payPeriodDate := time.Time{}
	if payload.PayPeriodDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.PayPeriodDate)
		if err != nil {
			api.FailField(w, http.StatusBadRequest, "invalid_input", "pay_period_date", "must be an ISO date (YYYY-MM-DD)", reqID)
			return
		}
		payPeriodDate = parsed
	}

	result, err := h.Svc.Calculate(r.Context(), payroll.CalculationInput{
		GrossSalary:          payload.GrossSalary,
		AdditionalIncome:     payload.AdditionalIncome,
		HasSpouse:            payload.HasSpouse,
		ChildCount:           payload.ChildCount,
		ProvidentFund:        payload.ProvidentFund,
		AdditionalDeductions: payload.AdditionalDeductions,
		TaxYear:              payload.TaxYear,
		PayPeriodDate:        payPeriodDate,
	})
	if h.Metrics != nil {
		h.Metrics.RecordCalculation(err != nil)
	}
	if err != nil {
		h.writeCalcError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

type runPayload struct {
	TaxYear       int    `json:"tax_year"`
	PayPeriodDate string `json:"pay_period_date"`
}

func (h *Handler) handleRunPeriod(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", reqID)
		return
	}
	payPeriodDate, err := time.Parse("2006-01-02", payload.PayPeriodDate)
	if err != nil {
		api.FailField(w, http.StatusBadRequest, "invalid_input", "pay_period_date", "must be an ISO date (YYYY-MM-DD)", reqID)
		return
	}

	summary, err := h.Svc.RunPeriod(r.Context(), user.TenantID, chi.URLParam(r, "periodID"), payload.TaxYear, payPeriodDate)
	if err != nil {
		h.writeCalcError(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	filePath, err := h.Svc.GeneratePayslipPDF(r.Context(), user.TenantID, chi.URLParam(r, "periodID"), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "payslip_not_found", "no payroll result for this employee and period", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payslip.pdf")
	http.ServeFile(w, r, filePath)
}

func (h *Handler) writeCalcError(w http.ResponseWriter, err error, reqID string) {
	field := ""
	var calcErr *payroll.CalcError
	if errors.As(err, &calcErr) {
		field = calcErr.Field
	}

	switch {
	case errors.Is(err, payroll.ErrInvalidInput):
		api.FailField(w, http.StatusBadRequest, "invalid_input", field, err.Error(), reqID)
	case errors.Is(err, payroll.ErrConfigurationNotFound):
		api.FailField(w, http.StatusNotFound, "configuration_not_found", field, err.Error(), reqID)
	case errors.Is(err, payroll.ErrInvalidBracketTable):
		api.FailField(w, http.StatusUnprocessableEntity, "invalid_bracket_table", field, err.Error(), reqID)
	case errors.Is(err, payroll.ErrUnsupportedDeductionKind):
		api.FailField(w, http.StatusUnprocessableEntity, "unsupported_deduction_kind", field, err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "calculation_failed", "payroll calculation failed", reqID)
	}
}
