package finance

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// AccountUseCase cuentas bancarias, lanzamientos, transferencias y conciliación.
type AccountUseCase struct {
	txRunner ports.TxRunner
	accounts repository.BankAccountRepository
	txs      repository.BankTransactionRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(txRunner ports.TxRunner, accounts repository.BankAccountRepository, txs repository.BankTransactionRepository) *AccountUseCase {
	return &AccountUseCase{txRunner: txRunner, accounts: accounts, txs: txs}
}

// Create crea una cuenta con saldo igual al saldo inicial.
func (uc *AccountUseCase) Create(ctx context.Context, companyID string, in dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error) {
	now := time.Now()
	account := &entity.BankAccount{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Name:           strings.TrimSpace(in.Name),
		BankName:       in.BankName,
		Agency:         in.Agency,
		Number:         in.Number,
		InitialBalance: in.InitialBalance.Round(2),
		Balance:        in.InitialBalance.Round(2),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// GetByID obtiene una cuenta de la empresa.
func (uc *AccountUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.BankAccountResponse, error) {
	account, err := uc.accounts.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return ToAccountResponse(account), nil
}

// List lista las cuentas de la empresa.
func (uc *AccountUseCase) List(ctx context.Context, companyID string, onlyActive bool) (*dto.BankAccountListResponse, error) {
	list, err := uc.accounts.ListByCompany(ctx, companyID, onlyActive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BankAccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *ToAccountResponse(a))
	}
	return &dto.BankAccountListResponse{Items: items}, nil
}

// Update cambia datos descriptivos o desactiva la cuenta. El saldo no se edita.
func (uc *AccountUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error) {
	account, err := uc.accounts.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		account.Name = strings.TrimSpace(*in.Name)
	}
	if in.BankName != nil {
		account.BankName = *in.BankName
	}
	if in.Agency != nil {
		account.Agency = *in.Agency
	}
	if in.Number != nil {
		account.Number = *in.Number
	}
	if in.Active != nil {
		account.Active = *in.Active
	}
	account.UpdatedAt = time.Now()
	if err := uc.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// Delete elimina una cuenta sin transacciones; con historial devuelve ErrConflict.
func (uc *AccountUseCase) Delete(ctx context.Context, companyID, id string) error {
	account, err := uc.accounts.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	n, err := uc.txs.CountByAccount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.accounts.Delete(ctx, companyID, id)
}

// PostTransaction lanzamiento manual de crédito o débito en la cuenta.
func (uc *AccountUseCase) PostTransaction(ctx context.Context, companyID, userID, accountID string, in dto.PostTransactionRequest) (*dto.TransactionResponse, error) {
	date := in.Date.Time
	if date.IsZero() {
		date = dateOnly(time.Now())
	}
	t := &entity.BankTransaction{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		AccountID:   accountID,
		Type:        in.Type,
		Amount:      in.Amount.Round(2),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		return Post(ctx, r, t)
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(t), nil
}

// DeleteTransaction elimina un lanzamiento y revierte el saldo. Las transacciones de cuotas o ventas
// se deshacen cancelando el pago o la venta (ErrLinkedTransaction). Borrar una pata de una
// transferencia borra las dos.
func (uc *AccountUseCase) DeleteTransaction(ctx context.Context, companyID, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		t, err := r.Transactions.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Linked() {
			return domain.ErrLinkedTransaction
		}
		legs := []*entity.BankTransaction{t}
		if t.TransferID != nil {
			legs, err = r.Transactions.ListByTransfer(ctx, companyID, *t.TransferID)
			if err != nil {
				return err
			}
		}
		// Orden fijo por cuenta para no invertir el orden de bloqueo entre transacciones concurrentes
		sort.Slice(legs, func(i, j int) bool { return legs[i].AccountID < legs[j].AccountID })
		for _, leg := range legs {
			if err := Reverse(ctx, r, leg); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListTransactions lista transacciones de una cuenta con rango de fechas.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, f repository.TransactionFilter) (*dto.TransactionListResponse, error) {
	if f.AccountID != "" {
		account, err := uc.accounts.GetByID(ctx, f.CompanyID, f.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, domain.ErrNotFound
		}
	}
	list, err := uc.txs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Transfer mueve dinero entre dos cuentas de la empresa: débito en origen y crédito en destino
// con el mismo TransferID, en una sola transacción. Las cuentas se bloquean en orden de id.
func (uc *AccountUseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, domain.ErrInvalidInput
	}
	amount := in.Amount.Round(2)
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date := in.Date.Time
	if date.IsZero() {
		date = dateOnly(time.Now())
	}
	now := time.Now()
	transferID := uuid.New().String()
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = "Transferência entre contas"
	}
	debit := &entity.BankTransaction{
		ID: uuid.New().String(), CompanyID: companyID, AccountID: in.FromAccountID,
		Type: entity.TransactionDebit, Amount: amount, Description: desc, Date: date,
		TransferID: &transferID, CreatedBy: userID, CreatedAt: now,
	}
	credit := &entity.BankTransaction{
		ID: uuid.New().String(), CompanyID: companyID, AccountID: in.ToAccountID,
		Type: entity.TransactionCredit, Amount: amount, Description: desc, Date: date,
		TransferID: &transferID, CreatedBy: userID, CreatedAt: now,
	}
	legs := []*entity.BankTransaction{debit, credit}
	sort.Slice(legs, func(i, j int) bool { return legs[i].AccountID < legs[j].AccountID })

	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		for _, leg := range legs {
			if err := Post(ctx, r, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{
		TransferID: transferID,
		Debit:      *ToTransactionResponse(debit),
		Credit:     *ToTransactionResponse(credit),
	}, nil
}

// Reconcile recalcula el saldo como SaldoInicial + Σcréditos − Σdébitos y lo persiste.
func (uc *AccountUseCase) Reconcile(ctx context.Context, companyID, id string) (*dto.ReconcileResponse, error) {
	var out *dto.ReconcileResponse
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		account, err := r.Accounts.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		credits, debits, err := r.Transactions.Totals(ctx, account.ID)
		if err != nil {
			return err
		}
		balance := account.InitialBalance.Add(credits).Sub(debits)
		if err := r.Accounts.UpdateBalance(ctx, account.ID, balance); err != nil {
			return err
		}
		out = &dto.ReconcileResponse{
			AccountID: account.ID,
			Previous:  account.Balance,
			Balance:   balance,
			Drift:     balance.Sub(account.Balance),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToAccountResponse convierte la entidad a DTO.
func ToAccountResponse(a *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		BankName:       a.BankName,
		Agency:         a.Agency,
		Number:         a.Number,
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToTransactionResponse convierte la entidad a DTO.
func ToTransactionResponse(t *entity.BankTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:            t.ID,
		AccountID:     t.AccountID,
		Type:          t.Type,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          dto.NewDate(t.Date),
		InstallmentID: t.InstallmentID,
		SaleID:        t.SaleID,
		TransferID:    t.TransferID,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
	}
}
