package repository

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// NFeRepository define el puerto de persistencia para NFe importadas.
type NFeRepository interface {
	// Create persiste cabecera, ítems y duplicatas.
	Create(ctx context.Context, nfe *entity.NFe) error
	// GetByID carga la NFe con ítems y duplicatas (sin RawXML).
	GetByID(ctx context.Context, companyID, id string) (*entity.NFe, error)
	// GetForUpdate bloquea la cabecera y carga ítems y duplicatas.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.NFe, error)
	GetByAccessKey(ctx context.Context, companyID, key string) (*entity.NFe, error)
	List(ctx context.Context, f NFeFilter) ([]*entity.NFe, error)
	UpdateItemMapping(ctx context.Context, item *entity.NFeItem) error
	// MarkLaunched persiste Status, LaunchedAt y BillID.
	MarkLaunched(ctx context.Context, nfe *entity.NFe) error
	// ClearBill desvincula la cuenta por pagar generada en el lanzamiento.
	ClearBill(ctx context.Context, companyID, id string) error
	Delete(ctx context.Context, companyID, id string) error
}

// NFeMappingRepository memoria de vínculos código de proveedor → ítem.
type NFeMappingRepository interface {
	Get(ctx context.Context, companyID, supplierCNPJ, supplierCode string) (*entity.NFeItemMapping, error)
	Upsert(ctx context.Context, m *entity.NFeItemMapping) error
}
