package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	domainfin "github.com/jhoicas/Gestao-api/internal/domain/finance"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// BillUseCase ciclo de vida de cuentas por pagar y cuotas.
type BillUseCase struct {
	txRunner     ports.TxRunner
	bills        repository.BillRepository
	installments repository.InstallmentRepository
	suppliers    repository.SupplierRepository
	now          func() time.Time
}

// NewBillUseCase construye el caso de uso.
func NewBillUseCase(
	txRunner ports.TxRunner,
	bills repository.BillRepository,
	installments repository.InstallmentRepository,
	suppliers repository.SupplierRepository,
) *BillUseCase {
	return &BillUseCase{
		txRunner:     txRunner,
		bills:        bills,
		installments: installments,
		suppliers:    suppliers,
		now:          time.Now,
	}
}

// Create crea la cuenta y sus cuotas. Sin calendario explícito divide el total en
// InstallmentCount cuotas mensuales (residuo en la primera).
func (uc *BillUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	total := in.TotalAmount.Round(2)
	if !total.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.SupplierID != nil && *in.SupplierID != "" {
		supplier, err := uc.suppliers.GetByID(ctx, companyID, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
	} else {
		in.SupplierID = nil
	}

	issue := in.IssueDate.Time
	if issue.IsZero() {
		issue = dateOnly(uc.now())
	}
	var schedule []domainfin.Schedule
	var err error
	if len(in.Installments) > 0 {
		dues := make([]time.Time, len(in.Installments))
		amounts := make([]decimal.Decimal, len(in.Installments))
		for i, s := range in.Installments {
			if s.DueDate.IsZero() {
				return nil, domain.ErrInvalidInput
			}
			dues[i] = s.DueDate.Time
			amounts[i] = s.Amount
		}
		schedule, err = domainfin.Explicit(total, dues, amounts)
	} else {
		n := in.InstallmentCount
		if n == 0 {
			n = 1
		}
		first := in.FirstDueDate.Time
		if first.IsZero() {
			first = issue
		}
		schedule, err = domainfin.Split(total, n, first)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := uc.now()
	bill := &entity.Bill{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SupplierID:  in.SupplierID,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		TotalAmount: total,
		IssueDate:   issue,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var installments []*entity.Installment
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		installments, err = CreateBillInTx(ctx, r, bill, schedule)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.toBillResponse(bill, installments), nil
}

// CreateBillInTx inserta la cuenta y una cuota por cada elemento del calendario en la tx del caller.
func CreateBillInTx(ctx context.Context, r repository.TxRepos, bill *entity.Bill, schedule []domainfin.Schedule) ([]*entity.Installment, error) {
	if err := r.Bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	out := make([]*entity.Installment, 0, len(schedule))
	for _, s := range schedule {
		in := &entity.Installment{
			ID:        uuid.New().String(),
			CompanyID: bill.CompanyID,
			BillID:    bill.ID,
			Number:    s.Number,
			DueDate:   s.DueDate,
			Amount:    s.Amount,
			Status:    entity.InstallmentPending,
			CreatedAt: bill.CreatedAt,
			UpdatedAt: bill.CreatedAt,
		}
		if err := r.Installments.Create(ctx, in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// GetByID devuelve la cuenta con sus cuotas y estado derivado.
func (uc *BillUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.BillResponse, error) {
	bill, err := uc.bills.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	installments, err := uc.installments.ListByBill(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	return uc.toBillResponse(bill, installments), nil
}

// List lista cuentas por estado o proveedor. Las cuotas no se incluyen.
func (uc *BillUseCase) List(ctx context.Context, f repository.BillFilter) (*dto.BillListResponse, error) {
	switch f.Status {
	case "", entity.BillStatusPending, entity.BillStatusPartial, entity.BillStatusPaid:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.bills.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BillResponse, 0, len(list))
	for _, b := range list {
		installments, err := uc.installments.ListByBill(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		resp := uc.toBillResponse(b, installments)
		resp.Installments = nil
		items = append(items, *resp)
	}
	return &dto.BillListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Update cambia descripción, categoría o proveedor.
func (uc *BillUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	bill, err := uc.bills.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	if in.SupplierID != nil {
		if *in.SupplierID == "" {
			bill.SupplierID = nil
		} else {
			supplier, err := uc.suppliers.GetByID(ctx, companyID, *in.SupplierID)
			if err != nil {
				return nil, err
			}
			if supplier == nil {
				return nil, domain.ErrNotFound
			}
			bill.SupplierID = in.SupplierID
		}
	}
	if in.Description != nil {
		bill.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		bill.Category = strings.TrimSpace(*in.Category)
	}
	bill.UpdatedAt = uc.now()
	if err := uc.bills.Update(ctx, bill); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID, id)
}

// Delete borra la cuenta y sus cuotas. Con alguna cuota pagada devuelve ErrBillHasPayments.
// Si la generó el lanzamiento de una NFe, la NFe queda sin bill_id.
func (uc *BillUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		bill, err := r.Bills.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		installments, err := r.Installments.ListByBill(ctx, bill.ID)
		if err != nil {
			return err
		}
		for _, in := range installments {
			if in.Status == entity.InstallmentPaid {
				return domain.ErrBillHasPayments
			}
		}
		if bill.NFeID != nil {
			if err := r.NFes.ClearBill(ctx, companyID, *bill.NFeID); err != nil {
				return err
			}
		}
		if err := r.Installments.DeleteByBill(ctx, bill.ID); err != nil {
			return err
		}
		return r.Bills.Delete(ctx, companyID, bill.ID)
	})
}

// ListInstallments lista cuotas por estado y rango de vencimiento.
// overdue=true restringe a pendientes vencidas antes de hoy.
func (uc *BillUseCase) ListInstallments(ctx context.Context, f repository.InstallmentFilter, overdue bool) (*dto.InstallmentListResponse, error) {
	switch f.Status {
	case "", entity.InstallmentPending, entity.InstallmentPaid:
	default:
		return nil, domain.ErrInvalidInput
	}
	if overdue {
		if f.Status == entity.InstallmentPaid {
			return nil, domain.ErrInvalidInput
		}
		f.Status = entity.InstallmentPending
		yesterday := dateOnly(uc.now()).AddDate(0, 0, -1)
		if f.DueTo == nil || f.DueTo.After(yesterday) {
			f.DueTo = &yesterday
		}
	}
	list, err := uc.installments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InstallmentResponse, 0, len(list))
	for _, in := range list {
		items = append(items, uc.toInstallmentResponse(in))
	}
	return &dto.InstallmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Pay paga una cuota pendiente: débito en la cuenta elegida y cuota → paid, todo en una tx.
// El valor por defecto es el de la cuota; puede diferir (intereses, descuento) pero debe ser > 0.
func (uc *BillUseCase) Pay(ctx context.Context, companyID, userID, installmentID string, in dto.PayInstallmentRequest) (*dto.InstallmentResponse, error) {
	var out *entity.Installment
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		inst, err := r.Installments.GetForUpdate(ctx, companyID, installmentID)
		if err != nil {
			return err
		}
		if inst == nil {
			return domain.ErrNotFound
		}
		if inst.Status != entity.InstallmentPending {
			return domain.ErrInstallmentNotPending
		}
		bill, err := r.Bills.GetByID(ctx, companyID, inst.BillID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		amount := inst.Amount
		if in.Amount != nil {
			amount = in.Amount.Round(2)
		}
		if !amount.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		now := uc.now()
		paidAt := in.PaidAt.Time
		if paidAt.IsZero() {
			paidAt = now
		}
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			desc = fmt.Sprintf("Pagamento parcela %d - %s", inst.Number, bill.Description)
		}
		t := &entity.BankTransaction{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			AccountID:     in.BankAccountID,
			Type:          entity.TransactionDebit,
			Amount:        amount,
			Description:   desc,
			Date:          dateOnly(paidAt),
			InstallmentID: &inst.ID,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := Post(ctx, r, t); err != nil {
			return err
		}
		inst.Status = entity.InstallmentPaid
		inst.PaidAt = &paidAt
		inst.PaidAmount = &amount
		inst.BankAccountID = &t.AccountID
		inst.BankTransactionID = &t.ID
		inst.UpdatedAt = now
		if err := r.Installments.Update(ctx, inst); err != nil {
			return err
		}
		out = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := uc.toInstallmentResponse(out)
	return &resp, nil
}

// CancelPayment revierte el pago: borra la transacción, devuelve el valor al saldo y la cuota
// vuelve a pending sin referencias.
func (uc *BillUseCase) CancelPayment(ctx context.Context, companyID, installmentID string) (*dto.InstallmentResponse, error) {
	var out *entity.Installment
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		inst, err := r.Installments.GetForUpdate(ctx, companyID, installmentID)
		if err != nil {
			return err
		}
		if inst == nil {
			return domain.ErrNotFound
		}
		if inst.Status != entity.InstallmentPaid {
			return domain.ErrInstallmentNotPaid
		}
		if inst.BankTransactionID != nil {
			t, err := r.Transactions.GetByID(ctx, companyID, *inst.BankTransactionID)
			if err != nil {
				return err
			}
			if t != nil {
				if err := Reverse(ctx, r, t); err != nil {
					return err
				}
			}
		}
		inst.Status = entity.InstallmentPending
		inst.PaidAt = nil
		inst.PaidAmount = nil
		inst.BankAccountID = nil
		inst.BankTransactionID = nil
		inst.UpdatedAt = uc.now()
		if err := r.Installments.Update(ctx, inst); err != nil {
			return err
		}
		out = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := uc.toInstallmentResponse(out)
	return &resp, nil
}

// Reschedule cambia el vencimiento de una cuota pendiente.
func (uc *BillUseCase) Reschedule(ctx context.Context, companyID, installmentID string, in dto.RescheduleInstallmentRequest) (*dto.InstallmentResponse, error) {
	if in.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Installment
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		inst, err := r.Installments.GetForUpdate(ctx, companyID, installmentID)
		if err != nil {
			return err
		}
		if inst == nil {
			return domain.ErrNotFound
		}
		if inst.Status != entity.InstallmentPending {
			return domain.ErrInstallmentNotPending
		}
		inst.DueDate = dateOnly(in.DueDate.Time)
		inst.UpdatedAt = uc.now()
		if err := r.Installments.Update(ctx, inst); err != nil {
			return err
		}
		out = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := uc.toInstallmentResponse(out)
	return &resp, nil
}

func (uc *BillUseCase) toBillResponse(b *entity.Bill, installments []*entity.Installment) *dto.BillResponse {
	paid := decimal.Zero
	items := make([]dto.InstallmentResponse, 0, len(installments))
	for _, in := range installments {
		if in.Status == entity.InstallmentPaid && in.PaidAmount != nil {
			paid = paid.Add(*in.PaidAmount)
		}
		items = append(items, uc.toInstallmentResponse(in))
	}
	return &dto.BillResponse{
		ID:           b.ID,
		SupplierID:   b.SupplierID,
		NFeID:        b.NFeID,
		Description:  b.Description,
		Category:     b.Category,
		TotalAmount:  b.TotalAmount,
		PaidAmount:   paid,
		IssueDate:    dto.NewDate(b.IssueDate),
		Status:       entity.BillStatus(installments),
		Installments: items,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (uc *BillUseCase) toInstallmentResponse(in *entity.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		ID:                in.ID,
		BillID:            in.BillID,
		Number:            in.Number,
		DueDate:           dto.NewDate(in.DueDate),
		Amount:            in.Amount,
		Status:            in.Status,
		Overdue:           in.Status == entity.InstallmentPending && in.DueDate.Before(dateOnly(uc.now())),
		PaidAt:            in.PaidAt,
		PaidAmount:        in.PaidAmount,
		BankAccountID:     in.BankAccountID,
		BankTransactionID: in.BankTransactionID,
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
