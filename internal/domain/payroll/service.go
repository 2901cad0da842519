package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const runWorkers = 8

// Service runs batch payroll over a tenant's active employees and renders
// payslips from stored results. Calculations share one immutable config
// snapshot per run and never touch shared mutable state, so employees are
// processed concurrently without coordination.
type Service struct {
	store      StoreAPI
	calculator *Calculator
	payslipDir string
}

func NewService(store StoreAPI, calculator *Calculator, payslipDir string) *Service {
	return &Service{store: store, calculator: calculator, payslipDir: payslipDir}
}

// RunFailure records one employee whose calculation was rejected. A bad
// employee row fails its own result, not the whole run; configuration
// problems fail the run before any employee is processed.
type RunFailure struct {
	EmployeeID string `json:"employeeId"`
	Error      string `json:"error"`
}

type RunSummary struct {
	PeriodID   string       `json:"periodId"`
	TaxYear    int          `json:"taxYear"`
	Calculated int          `json:"calculated"`
	Failed     int          `json:"failed"`
	Failures   []RunFailure `json:"failures,omitempty"`
}

// RunPeriod calculates payroll for every active employee of the tenant and
// upserts the results for the period.
func (s *Service) RunPeriod(ctx context.Context, tenantID, periodID string, taxYear int, payPeriodDate time.Time) (RunSummary, error) {
	// Resolve and validate the year's configuration once, up front. A missing
	// or malformed table must fail the run, not each employee.
	if _, err := s.calculator.provider.BracketTable(ctx, taxYear); err != nil {
		return RunSummary{}, err
	}
	if _, err := s.calculator.provider.DeductionPolicy(ctx, taxYear); err != nil {
		return RunSummary{}, err
	}
	if _, err := s.calculator.provider.SocialSecurityRule(ctx, taxYear); err != nil {
		return RunSummary{}, err
	}

	inputs, err := s.store.ListEmployeeInputs(ctx, tenantID, taxYear, payPeriodDate)
	if err != nil {
		return RunSummary{}, err
	}

	type outcome struct {
		employeeID string
		result     *CalculationResult
		err        error
	}

	jobs := make(chan EmployeeInput)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < runWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range jobs {
				result, err := s.calculator.Calculate(ctx, in.Input)
				outcomes <- outcome{employeeID: in.EmployeeID, result: result, err: err}
			}
		}()
	}
	go func() {
		for _, in := range inputs {
			jobs <- in
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	// The outcomes channel is unbuffered, so the loop must consume every
	// outcome even after a storage error: returning early would leave
	// workers blocked on the send and the feeder blocked behind them.
	summary := RunSummary{PeriodID: periodID, TaxYear: taxYear}
	var storeErr error
	for out := range outcomes {
		if out.err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, RunFailure{EmployeeID: out.employeeID, Error: out.err.Error()})
			slog.Warn("payroll calculation failed", "employeeId", out.employeeID, "err", out.err)
			continue
		}
		if storeErr != nil {
			continue
		}
		if err := s.store.UpsertResult(ctx, tenantID, periodID, out.employeeID, out.result); err != nil {
			storeErr = fmt.Errorf("store result for employee %s: %w", out.employeeID, err)
		} else {
			summary.Calculated++
		}
	}
	if storeErr != nil {
		return RunSummary{}, storeErr
	}
	return summary, nil
}

// Calculate runs a single calculation without persisting anything.
func (s *Service) Calculate(ctx context.Context, input CalculationInput) (*CalculationResult, error) {
	return s.calculator.Calculate(ctx, input)
}

// GeneratePayslipPDF renders the stored calculation breakdown for one
// employee-period and returns the written file path.
func (s *Service) GeneratePayslipPDF(ctx context.Context, tenantID, periodID, employeeID string) (string, error) {
	result, employeeName, err := s.store.ResultPayload(ctx, tenantID, periodID, employeeID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.payslipDir, fmt.Sprintf("%s_%s.pdf", periodID, employeeID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Pay period: %s", result.PayPeriodDate.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tax year: %d", result.TaxYear))
	pdf.Ln(10)

	pdf.Cell(0, 7, fmt.Sprintf("Gross salary: %s", result.Formatted.GrossSalary))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total income: %s", result.Formatted.TotalIncome))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Income tax: %s", result.Formatted.IncomeTax))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Social security: %s", result.Formatted.SocialSecurity))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total deductions (annual): %s", result.Formatted.TotalDeductions))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Net salary: %s", result.Formatted.NetSalary))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Tax breakdown")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	for _, bracket := range result.TaxBreakdown {
		upper := "and above"
		if bracket.UpperBound != nil {
			upper = "to " + bracket.UpperBound.StringFixed(0)
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s %s @ %s%%: taxable %s, tax %s",
			bracket.LowerBound.StringFixed(0), upper,
			bracket.Rate.Mul(hundred).StringFixed(0),
			bracket.TaxableAmount.StringFixed(2), bracket.TaxAmount.StringFixed(2)))
		pdf.Ln(5)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
