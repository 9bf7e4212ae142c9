package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stationops/internal/core/apperror"
	"stationops/internal/core/id"
	"stationops/internal/domain/finance"
	"stationops/internal/domain/readings"
)

const (
	chargeInvoicesTable = "charge_invoices"
	depositsTable       = "deposits"
	checksTable         = "checks"
	expensesTable       = "expenses"
	disbursementsTable  = "disbursements"
	productSalesTable   = "product_sales"
)

var (
	chargeInvoiceColumns = ExtractDBColumns[finance.ChargeInvoice]()
	depositColumns       = ExtractDBColumns[finance.Deposit]()
	checkColumns         = ExtractDBColumns[finance.Check]()
	expenseColumns       = ExtractDBColumns[finance.Expense]()
	disbursementColumns  = ExtractDBColumns[finance.Disbursement]()
	productSaleColumns   = ExtractDBColumns[finance.ProductSale]()
)

// FinanceRepository is the PostgreSQL implementation of finance.Repository.
// It also serves the accountability aggregator as its finance source.
type FinanceRepository struct {
	txManager *TxManager
}

var _ finance.Repository = (*FinanceRepository)(nil)

// NewFinanceRepository creates a new finance repository.
func NewFinanceRepository(txManager *TxManager) *FinanceRepository {
	return &FinanceRepository{txManager: txManager}
}

func (r *FinanceRepository) insert(ctx context.Context, table string, record any) error {
	sql, args, err := squirrel.Insert(table).
		SetMap(StructToMap(record)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return err
	}
	return nil
}

// shiftWhere applies the shift scope filter shared by all per-shift tables.
func shiftWhere(q squirrel.SelectBuilder, filter finance.ShiftFilter) squirrel.SelectBuilder {
	if filter.HasBranch {
		if filter.BranchID != nil {
			q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
		} else {
			q = q.Where("branch_id IS NULL")
		}
	}
	q = q.Where(squirrel.Eq{"shift_date": readings.NormalizeDate(filter.ShiftDate)})
	if filter.ShiftNumber != nil {
		q = q.Where(squirrel.Eq{"shift_number": *filter.ShiftNumber})
	}
	return q
}

// --- Charge invoices ---

func (r *FinanceRepository) CreateChargeInvoice(ctx context.Context, inv *finance.ChargeInvoice) error {
	err := r.insert(ctx, chargeInvoicesTable, inv)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("an invoice with this number already exists").
				WithDetail("number", inv.Number).
				WithCause(err)
		}
		return fmt.Errorf("insert charge invoice: %w", err)
	}
	return nil
}

func (r *FinanceRepository) UpdateChargeInvoice(ctx context.Context, inv *finance.ChargeInvoice) error {
	values := StructToMap(inv)
	delete(values, "id")
	delete(values, "created_at")
	delete(values, "created_by")

	sql, args, err := squirrel.Update(chargeInvoicesTable).
		SetMap(values).
		Where(squirrel.Eq{"id": inv.ID}).
		Where(squirrel.Eq{"version": inv.Version - 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update charge invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("charge invoice", inv.ID)
	}
	return nil
}

func (r *FinanceRepository) GetChargeInvoiceByID(ctx context.Context, invID id.ID) (*finance.ChargeInvoice, error) {
	sql, args, err := squirrel.Select(chargeInvoiceColumns...).
		From(chargeInvoicesTable).
		Where(squirrel.Eq{"id": invID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var inv finance.ChargeInvoice
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &inv, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("charge invoice", invID)
		}
		return nil, fmt.Errorf("get charge invoice: %w", err)
	}
	return &inv, nil
}

func (r *FinanceRepository) ListChargeInvoices(ctx context.Context, filter finance.InvoiceFilter) ([]*finance.ChargeInvoice, error) {
	q := squirrel.Select(chargeInvoiceColumns...).
		From(chargeInvoicesTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("invoice_date", "number")

	if filter.HasBranch {
		if filter.BranchID != nil {
			q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
		} else {
			q = q.Where("branch_id IS NULL")
		}
	}
	if !filter.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"invoice_date": readings.NormalizeDate(filter.From)})
	}
	if !filter.To.IsZero() {
		q = q.Where(squirrel.Lt{"invoice_date": readings.NormalizeDate(filter.To)})
	}
	if filter.Unpaid {
		q = q.Where(squirrel.Eq{"paid": false})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.ChargeInvoice
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list charge invoices: %w", err)
	}
	return result, nil
}

// --- Deposits ---

func (r *FinanceRepository) CreateDeposit(ctx context.Context, d *finance.Deposit) error {
	if err := r.insert(ctx, depositsTable, d); err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListDeposits(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Deposit, error) {
	q := shiftWhere(squirrel.Select(depositColumns...).
		From(depositsTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_number", "deposit_number"), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.Deposit
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return result, nil
}

// --- Checks ---

func (r *FinanceRepository) CreateCheck(ctx context.Context, c *finance.Check) error {
	if err := r.insert(ctx, checksTable, c); err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListChecks(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Check, error) {
	q := shiftWhere(squirrel.Select(checkColumns...).
		From(checksTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_number", "check_number"), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.Check
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return result, nil
}

// --- Expenses ---

func (r *FinanceRepository) CreateExpense(ctx context.Context, e *finance.Expense) error {
	if err := r.insert(ctx, expensesTable, e); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListExpenses(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Expense, error) {
	q := shiftWhere(squirrel.Select(expenseColumns...).
		From(expensesTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_number", "created_at"), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.Expense
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return result, nil
}

// --- Disbursements ---

func (r *FinanceRepository) CreateDisbursement(ctx context.Context, d *finance.Disbursement) error {
	if err := r.insert(ctx, disbursementsTable, d); err != nil {
		return fmt.Errorf("insert disbursement: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListDisbursements(ctx context.Context, filter finance.ShiftFilter) ([]*finance.Disbursement, error) {
	q := shiftWhere(squirrel.Select(disbursementColumns...).
		From(disbursementsTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_number", "created_at"), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.Disbursement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list disbursements: %w", err)
	}
	return result, nil
}

// --- Product sales ---

func (r *FinanceRepository) CreateProductSale(ctx context.Context, p *finance.ProductSale) error {
	if err := r.insert(ctx, productSalesTable, p); err != nil {
		return fmt.Errorf("insert product sale: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListProductSales(ctx context.Context, filter finance.ShiftFilter) ([]*finance.ProductSale, error) {
	q := shiftWhere(squirrel.Select(productSaleColumns...).
		From(productSalesTable).
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("shift_number", "category"), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var result []*finance.ProductSale
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, fmt.Errorf("list product sales: %w", err)
	}
	return result, nil
}
