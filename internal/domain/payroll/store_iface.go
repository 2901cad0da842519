package payroll

import (
	"context"
	"time"
)

// StoreAPI is the persistence surface the batch service needs. *Store is the
// Postgres implementation; tests substitute their own.
type StoreAPI interface {
	ListEmployeeInputs(ctx context.Context, tenantID string, taxYear int, payPeriodDate time.Time) ([]EmployeeInput, error)
	UpsertResult(ctx context.Context, tenantID, periodID, employeeID string, result *CalculationResult) error
	ResultPayload(ctx context.Context, tenantID, periodID, employeeID string) (CalculationResult, string, error)
}
