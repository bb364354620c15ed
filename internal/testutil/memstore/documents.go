package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/inventory"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

type saleRow struct {
	entity.Sale
	seq int64
}

type nfeRow struct {
	entity.NFe
	seq int64
}

type mappingRow struct {
	entity.NFeItemMapping
}

var (
	_ repository.SaleRepository       = (*SaleRepo)(nil)
	_ repository.NFeRepository        = (*NFeRepo)(nil)
	_ repository.NFeMappingRepository = (*MappingRepo)(nil)
	_ repository.AnalyticsRepository  = (*AnalyticsRepo)(nil)
)

func copySale(s entity.Sale) *entity.Sale {
	s.Items = slices.Clone(s.Items)
	return &s
}

func copyNFe(n entity.NFe) *entity.NFe {
	n.Items = slices.Clone(n.Items)
	n.Duplicates = slices.Clone(n.Duplicates)
	n.RawXML = slices.Clone(n.RawXML)
	return &n
}

// SaleRepo ventas.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("sales.create"); err != nil {
		return err
	}
	r.s.data.sales[sale.ID] = saleRow{Sale: *copySale(*sale), seq: r.s.next()}
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.sales[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	return copySale(row.Sale), nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

// Update cambia estado y referencias; las líneas son inmutables.
func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.sales[sale.ID]
	if !ok || row.CompanyID != sale.CompanyID {
		return domain.ErrNotFound
	}
	items := row.Items
	row.Sale = *sale
	row.Items = items
	r.s.data.sales[sale.ID] = row
	return nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []saleRow{}
	for _, row := range r.s.data.sales {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if f.From != nil && row.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && row.CreatedAt.After(*f.To) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := []*entity.Sale{}
	for _, row := range paginate(rows, f.Page) {
		out = append(out, copySale(row.Sale))
	}
	return out, nil
}

// NFeRepo documentos importados.
type NFeRepo struct{ s *Store }

func (r *NFeRepo) Create(_ context.Context, n *entity.NFe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("nfes.create"); err != nil {
		return err
	}
	for _, row := range r.s.data.nfes {
		if row.CompanyID == n.CompanyID && row.AccessKey == n.AccessKey {
			return domain.ErrDuplicate
		}
	}
	r.s.data.nfes[n.ID] = nfeRow{NFe: *copyNFe(*n), seq: r.s.next()}
	return nil
}

func (r *NFeRepo) GetByID(_ context.Context, companyID, id string) (*entity.NFe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.nfes[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	return copyNFe(row.NFe), nil
}

func (r *NFeRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.NFe, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *NFeRepo) GetByAccessKey(_ context.Context, companyID, key string) (*entity.NFe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.nfes {
		if row.CompanyID == companyID && row.AccessKey == key {
			return copyNFe(row.NFe), nil
		}
	}
	return nil, nil
}

func (r *NFeRepo) List(_ context.Context, f repository.NFeFilter) ([]*entity.NFe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []nfeRow{}
	for _, row := range r.s.data.nfes {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := []*entity.NFe{}
	for _, row := range paginate(rows, f.Page) {
		n := copyNFe(row.NFe)
		n.RawXML = nil
		out = append(out, n)
	}
	return out, nil
}

func (r *NFeRepo) UpdateItemMapping(_ context.Context, item *entity.NFeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.nfes[item.NFeID]
	if !ok {
		return domain.ErrNotFound
	}
	items := slices.Clone(row.Items)
	for i := range items {
		if items[i].Line == item.Line {
			items[i].ItemID = item.ItemID
			items[i].Factor = item.Factor
			row.Items = items
			r.s.data.nfes[item.NFeID] = row
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *NFeRepo) MarkLaunched(_ context.Context, n *entity.NFe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("nfes.mark_launched"); err != nil {
		return err
	}
	row, ok := r.s.data.nfes[n.ID]
	if !ok || row.CompanyID != n.CompanyID {
		return domain.ErrNotFound
	}
	row.Status = n.Status
	row.LaunchedAt = n.LaunchedAt
	row.BillID = n.BillID
	r.s.data.nfes[n.ID] = row
	return nil
}

func (r *NFeRepo) ClearBill(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("nfes.clear_bill"); err != nil {
		return err
	}
	if row, ok := r.s.data.nfes[id]; ok && row.CompanyID == companyID {
		row.BillID = nil
		r.s.data.nfes[id] = row
	}
	return nil
}

func (r *NFeRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.nfes[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.nfes, id)
	return nil
}

// MappingRepo memoria de vínculos proveedor→ítem.
type MappingRepo struct{ s *Store }

func mappingKey(companyID, cnpj, code string) string {
	return companyID + "/" + cnpj + "/" + code
}

func (r *MappingRepo) Get(_ context.Context, companyID, supplierCNPJ, supplierCode string) (*entity.NFeItemMapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.mappings[mappingKey(companyID, supplierCNPJ, supplierCode)]
	if !ok {
		return nil, nil
	}
	m := row.NFeItemMapping
	return &m, nil
}

func (r *MappingRepo) Upsert(_ context.Context, m *entity.NFeItemMapping) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.mappings[mappingKey(m.CompanyID, m.SupplierCNPJ, m.SupplierCode)] = mappingRow{*m}
	return nil
}

// AnalyticsRepo agrega sobre el estado en memoria con las mismas reglas que las consultas SQL.
type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) DashboardSummary(_ context.Context, companyID string, now, upcomingUntil time.Time) (*repository.DashboardSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := &repository.DashboardSummary{}
	for _, a := range r.s.data.accounts {
		if a.CompanyID == companyID && a.Active {
			out.TotalBalance = out.TotalBalance.Add(a.Balance)
		}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, in := range r.s.data.installments {
		if in.CompanyID != companyID || in.Status != entity.InstallmentPending {
			continue
		}
		switch {
		case in.DueDate.Before(today):
			out.OverdueCount++
			out.OverdueAmount = out.OverdueAmount.Add(in.Amount)
		case !in.DueDate.After(upcomingUntil):
			out.UpcomingCount++
			out.UpcomingAmount = out.UpcomingAmount.Add(in.Amount)
		}
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, s := range r.s.data.sales {
		if s.CompanyID == companyID && s.Status == entity.SaleStatusCompleted && !s.CreatedAt.Before(monthStart) {
			out.MonthSalesCount++
			out.MonthSalesAmount = out.MonthSalesAmount.Add(s.Total)
		}
	}
	for _, n := range r.s.data.nfes {
		if n.CompanyID == companyID && n.Status == entity.NFeStatusPending {
			out.PendingNFeCount++
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) latestCost(itemID string) *entity.CostEntry {
	var latest *entity.CostEntry
	for i := range r.s.data.costs {
		row := r.s.data.costs[i].CostEntry
		if row.ItemID != itemID {
			continue
		}
		if latest == nil || !row.CreatedAt.Before(latest.CreatedAt) {
			latest = &row
		}
	}
	return latest
}

func (r *AnalyticsRepo) StockValuation(_ context.Context, companyID, kind string) ([]repository.StockValuationRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []repository.StockValuationRow{}
	for _, it := range r.s.data.items {
		if it.CompanyID != companyID || !it.Active || (kind != "" && it.Kind != kind) {
			continue
		}
		latest := r.latestCost(it.ID)
		unit := inventory.UnitCost(latest)
		out = append(out, repository.StockValuationRow{
			ItemID:   it.ID,
			SKU:      it.SKU,
			Name:     it.Name,
			Kind:     it.Kind,
			Unit:     it.Unit,
			Stock:    it.Stock,
			UnitCost: unit,
			Value:    it.Stock.Mul(unit),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *AnalyticsRepo) LowStock(_ context.Context, companyID string) ([]repository.LowStockRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []repository.LowStockRow{}
	for _, it := range r.s.data.items {
		if it.CompanyID != companyID || !it.Active || !it.Stock.LessThan(it.MinStock) {
			continue
		}
		out = append(out, repository.LowStockRow{
			ItemID:   it.ID,
			SKU:      it.SKU,
			Name:     it.Name,
			Kind:     it.Kind,
			Stock:    it.Stock,
			MinStock: it.MinStock,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MinStock.Sub(out[i].Stock).GreaterThan(out[j].MinStock.Sub(out[j].Stock))
	})
	return out, nil
}
