// Package memstore implementa todos los puertos de repositorio en memoria para tests de casos de uso.
// El TxRunner toma una copia del estado antes de cada transacción y la restaura si fn falla,
// de modo que los tests pueden verificar el Rollback.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

type state struct {
	companies    map[string]companyRow
	modules      map[string]moduleRow
	users        map[string]userRow
	suppliers    map[string]supplierRow
	items        map[string]itemRow
	costs        []costRow
	movements    []movementRow
	accounts     map[string]accountRow
	transactions []transactionRow
	bills        map[string]billRow
	installments map[string]installmentRow
	sales        map[string]saleRow
	nfes         map[string]nfeRow
	mappings     map[string]mappingRow
}

func newState() *state {
	return &state{
		companies:    map[string]companyRow{},
		modules:      map[string]moduleRow{},
		users:        map[string]userRow{},
		suppliers:    map[string]supplierRow{},
		items:        map[string]itemRow{},
		accounts:     map[string]accountRow{},
		bills:        map[string]billRow{},
		installments: map[string]installmentRow{},
		sales:        map[string]saleRow{},
		nfes:         map[string]nfeRow{},
		mappings:     map[string]mappingRow{},
	}
}

// clone copia superficial: las filas se guardan por valor y sus slices nunca se mutan en sitio.
func (s *state) clone() *state {
	return &state{
		companies:    maps.Clone(s.companies),
		modules:      maps.Clone(s.modules),
		users:        maps.Clone(s.users),
		suppliers:    maps.Clone(s.suppliers),
		items:        maps.Clone(s.items),
		costs:        slices.Clone(s.costs),
		movements:    slices.Clone(s.movements),
		accounts:     maps.Clone(s.accounts),
		transactions: slices.Clone(s.transactions),
		bills:        maps.Clone(s.bills),
		installments: maps.Clone(s.installments),
		sales:        maps.Clone(s.sales),
		nfes:         maps.Clone(s.nfes),
		mappings:     maps.Clone(s.mappings),
	}
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	data  *state
	seq   int64
	fails map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newState(), fails: map[string]error{}}
}

// FailOn hace que la operación op (ej. "transactions.create") devuelva err.
// Sirve para forzar fallos a mitad de transacción.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[op] = err
}

// fail se llama con mu tomado.
func (s *Store) fail(op string) error {
	return s.fails[op]
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// Repos devuelve todos los repositorios sobre el store.
func (s *Store) Repos() repository.TxRepos {
	return repository.TxRepos{
		Items:        &ItemRepo{s: s},
		Costs:        &CostEntryRepo{s: s},
		Movements:    &MovementRepo{s: s},
		Accounts:     &AccountRepo{s: s},
		Transactions: &TransactionRepo{s: s},
		Bills:        &BillRepo{s: s},
		Installments: &InstallmentRepo{s: s},
		Sales:        &SaleRepo{s: s},
		NFes:         &NFeRepo{s: s},
		Mappings:     &MappingRepo{s: s},
		Suppliers:    &SupplierRepo{s: s},
		Companies:    &CompanyRepo{s: s},
		Users:        &UserRepo{s: s},
	}
}

// Analytics repositorio de consultas agregadas.
func (s *Store) Analytics() repository.AnalyticsRepository {
	return &AnalyticsRepo{s: s}
}

// TxRunner variante en memoria de postgres.TxRunner.
type TxRunner struct {
	s *Store
}

// Tx construye el runner transaccional.
func (s *Store) Tx() *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa las transacciones y restaura el estado si fn devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.data.clone()
	r.s.mu.Unlock()

	if err := fn(r.s.Repos()); err != nil {
		r.s.mu.Lock()
		r.s.data = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func paginate[T any](list []T, p repository.Page) []T {
	if p.Offset >= len(list) {
		return []T{}
	}
	list = list[p.Offset:]
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}
