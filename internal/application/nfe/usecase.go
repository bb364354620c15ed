// Package nfe importación de NFe (XML de autorización) y su lanzamiento al stock.
package nfe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	domainfin "github.com/jhoicas/Gestao-api/internal/domain/finance"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/pkg/fiscal"
)

// Parser puerto de lectura del XML. Devuelve la NFe con ítems y duplicatas, sin IDs ni empresa.
// Errores de formato envuelven domain.ErrInvalidInput.
type Parser interface {
	Parse(raw []byte) (*entity.NFe, error)
}

// NFeUseCase importación, vínculo de ítems, lanzamiento y consulta de NFe.
type NFeUseCase struct {
	txRunner ports.TxRunner
	nfes     repository.NFeRepository
	items    repository.ItemRepository
	parser   Parser
}

// NewNFeUseCase construye el caso de uso.
func NewNFeUseCase(txRunner ports.TxRunner, nfes repository.NFeRepository, items repository.ItemRepository, parser Parser) *NFeUseCase {
	return &NFeUseCase{txRunner: txRunner, nfes: nfes, items: items, parser: parser}
}

// Import lee el XML, valida la chave, resuelve (o crea) el proveedor por CNPJ del emisor y
// pre-vincula cada línea con la memoria de vínculos. La misma chave no se importa dos veces.
func (uc *NFeUseCase) Import(ctx context.Context, companyID, userID string, raw []byte) (*dto.NFeResponse, error) {
	doc, err := uc.parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if _, err := fiscal.ParseAccessKey(doc.AccessKey); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAccessKey, err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("%w: la NFe no tiene ítems", domain.ErrInvalidInput)
	}

	now := time.Now()
	doc.ID = uuid.New().String()
	doc.CompanyID = companyID
	doc.Status = entity.NFeStatusPending
	doc.CreatedBy = userID
	doc.CreatedAt = now
	doc.RawXML = raw
	for i := range doc.Items {
		doc.Items[i].ID = uuid.New().String()
		doc.Items[i].NFeID = doc.ID
		doc.Items[i].ItemID = nil
		if doc.Items[i].Factor.IsZero() {
			doc.Items[i].Factor = decimal.NewFromInt(1)
		}
	}

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		existing, err := r.NFes.GetByAccessKey(ctx, companyID, doc.AccessKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		supplier, err := uc.resolveSupplier(ctx, r, companyID, doc, now)
		if err != nil {
			return err
		}
		doc.SupplierID = &supplier.ID
		for i := range doc.Items {
			line := &doc.Items[i]
			if line.Code == "" {
				continue
			}
			m, err := r.Mappings.Get(ctx, companyID, doc.EmitterCNPJ, line.Code)
			if err != nil {
				return err
			}
			if m == nil {
				continue
			}
			// La memoria puede apuntar a un ítem borrado
			item, err := r.Items.GetByID(ctx, companyID, m.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			itemID := m.ItemID
			line.ItemID = &itemID
			line.Factor = m.Factor
		}
		return r.NFes.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toNFeResponse(doc, true), nil
}

func (uc *NFeUseCase) resolveSupplier(ctx context.Context, r repository.TxRepos, companyID string, doc *entity.NFe, now time.Time) (*entity.Supplier, error) {
	supplier, err := r.Suppliers.GetByCNPJ(ctx, companyID, doc.EmitterCNPJ)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		return supplier, nil
	}
	name := strings.TrimSpace(doc.EmitterName)
	if name == "" {
		name = doc.EmitterCNPJ
	}
	supplier = &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		CNPJ:      doc.EmitterCNPJ,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// MapItem vincula la línea line de una NFe pendiente a un ítem propio con su factor de conversión.
func (uc *NFeUseCase) MapItem(ctx context.Context, companyID, nfeID string, line int, in dto.MapNFeItemRequest) (*dto.NFeResponse, error) {
	factor := decimal.NewFromInt(1)
	if in.Factor != nil {
		factor = *in.Factor
	}
	if !factor.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.NFe
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		doc, err := r.NFes.GetForUpdate(ctx, companyID, nfeID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.NFeStatusPending {
			return domain.ErrNFeAlreadyLaunched
		}
		item, err := r.Items.GetByID(ctx, companyID, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		for i := range doc.Items {
			if doc.Items[i].Line != line {
				continue
			}
			itemID := item.ID
			doc.Items[i].ItemID = &itemID
			doc.Items[i].Factor = factor
			if err := r.NFes.UpdateItemMapping(ctx, &doc.Items[i]); err != nil {
				return err
			}
			out = doc
			return nil
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return toNFeResponse(out, true), nil
}

// Launch lanza la NFe al stock en una sola transacción: por línea suma qCom·factor, agrega al
// historial de costos (precio = vProd) y guarda el movimiento IN; actualiza la memoria de
// vínculos. Con CreateBill genera la cuenta por pagar desde las duplicatas.
func (uc *NFeUseCase) Launch(ctx context.Context, companyID, userID, nfeID string, in dto.LaunchNFeRequest) (*dto.NFeResponse, error) {
	var out *entity.NFe
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		doc, err := r.NFes.GetForUpdate(ctx, companyID, nfeID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.NFeStatusPending {
			return domain.ErrNFeAlreadyLaunched
		}
		for i := range doc.Items {
			if !doc.Items[i].Mapped() {
				return domain.ErrNFeUnmappedItems
			}
		}

		now := time.Now()
		for i := range doc.Items {
			line := &doc.Items[i]
			price := line.TotalPrice
			if _, err := inventory.ApplyIN(ctx, r, inventory.StockChange{
				CompanyID:     companyID,
				UserID:        userID,
				ItemID:        *line.ItemID,
				Quantity:      line.StockQuantity(),
				Price:         &price,
				CostSource:    entity.CostSourceNFe,
				NFeID:         &doc.ID,
				RefType:       entity.MovementRefNFe,
				RefID:         doc.ID,
				TransactionID: doc.ID,
				Now:           now,
			}); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: línea %d apunta a un ítem inexistente", domain.ErrNFeUnmappedItems, line.Line)
				}
				return err
			}
			if line.Code != "" {
				if err := r.Mappings.Upsert(ctx, &entity.NFeItemMapping{
					CompanyID:    companyID,
					SupplierCNPJ: doc.EmitterCNPJ,
					SupplierCode: line.Code,
					ItemID:       *line.ItemID,
					Factor:       line.Factor,
					UpdatedAt:    now,
				}); err != nil {
					return err
				}
			}
		}

		if in.CreateBill {
			billID, err := createBillFromNFe(ctx, r, doc, userID, in.Category, now)
			if err != nil {
				return err
			}
			doc.BillID = &billID
		}
		doc.Status = entity.NFeStatusLaunched
		doc.LaunchedAt = &now
		if err := r.NFes.MarkLaunched(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toNFeResponse(out, true), nil
}

// createBillFromNFe total = vNF; cuotas desde las duplicatas o una sola con vencimiento en la emisión.
func createBillFromNFe(ctx context.Context, r repository.TxRepos, doc *entity.NFe, userID, category string, now time.Time) (string, error) {
	total := doc.TotalAmount.Round(2)
	issue := time.Date(doc.IssueDate.Year(), doc.IssueDate.Month(), doc.IssueDate.Day(), 0, 0, 0, 0, time.UTC)
	var schedule []domainfin.Schedule
	var err error
	if len(doc.Duplicates) > 0 {
		dues := make([]time.Time, len(doc.Duplicates))
		amounts := make([]decimal.Decimal, len(doc.Duplicates))
		for i, d := range doc.Duplicates {
			dues[i] = d.DueDate
			amounts[i] = d.Amount
		}
		schedule, err = domainfin.Explicit(total, dues, amounts)
	} else {
		schedule, err = domainfin.Split(total, 1, issue)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(category) == "" {
		category = "compras"
	}
	bill := &entity.Bill{
		ID:          uuid.New().String(),
		CompanyID:   doc.CompanyID,
		SupplierID:  doc.SupplierID,
		NFeID:       &doc.ID,
		Description: fmt.Sprintf("NFe %s/%s - %s", doc.Number, doc.Series, doc.EmitterName),
		Category:    strings.TrimSpace(category),
		TotalAmount: total,
		IssueDate:   issue,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := finance.CreateBillInTx(ctx, r, bill, schedule); err != nil {
		return "", err
	}
	return bill.ID, nil
}

// GetByID devuelve la NFe con ítems y duplicatas.
func (uc *NFeUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.NFeResponse, error) {
	doc, err := uc.nfes.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return toNFeResponse(doc, true), nil
}

// List lista NFe por estado.
func (uc *NFeUseCase) List(ctx context.Context, f repository.NFeFilter) (*dto.NFeListResponse, error) {
	switch f.Status {
	case "", entity.NFeStatusPending, entity.NFeStatusLaunched:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.nfes.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NFeResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *toNFeResponse(n, false))
	}
	return &dto.NFeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Delete borra una NFe pendiente. Una NFe lanzada ya movió stock y no se borra.
func (uc *NFeUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		doc, err := r.NFes.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.NFeStatusPending {
			return domain.ErrNFeAlreadyLaunched
		}
		return r.NFes.Delete(ctx, companyID, id)
	})
}

func toNFeResponse(n *entity.NFe, detail bool) *dto.NFeResponse {
	resp := &dto.NFeResponse{
		ID:            n.ID,
		AccessKey:     n.AccessKey,
		Number:        n.Number,
		Series:        n.Series,
		IssueDate:     n.IssueDate,
		EmitterCNPJ:   n.EmitterCNPJ,
		EmitterName:   n.EmitterName,
		SupplierID:    n.SupplierID,
		TotalProducts: n.TotalProducts,
		TotalAmount:   n.TotalAmount,
		DigestValid:   n.DigestValid,
		Status:        n.Status,
		LaunchedAt:    n.LaunchedAt,
		BillID:        n.BillID,
		CreatedAt:     n.CreatedAt,
	}
	for i := range n.Items {
		if !n.Items[i].Mapped() {
			resp.UnmappedCount++
		}
	}
	if !detail {
		return resp
	}
	for _, it := range n.Items {
		resp.Items = append(resp.Items, dto.NFeItemResponse{
			Line:        it.Line,
			Code:        it.Code,
			EAN:         it.EAN,
			Description: it.Description,
			NCM:         it.NCM,
			CFOP:        it.CFOP,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			ItemID:      it.ItemID,
			Factor:      it.Factor,
		})
	}
	for _, d := range n.Duplicates {
		resp.Duplicates = append(resp.Duplicates, dto.NFeDuplicateResponse{
			Number:  d.Number,
			DueDate: dto.NewDate(d.DueDate),
			Amount:  d.Amount,
		})
	}
	return resp
}
