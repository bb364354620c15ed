package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// ModuleService decide si una empresa puede usar un módulo (inventory, finance, sales, nfe).
// La regla de vigencia vive aquí; el repositorio solo entrega el registro contratado.
type ModuleService struct {
	companies repository.CompanyRepository
	now       func() time.Time
}

// NewModuleService construye el servicio con el reloj del sistema.
func NewModuleService(companies repository.CompanyRepository) *ModuleService {
	return &ModuleService{companies: companies, now: time.Now}
}

// WithClock reemplaza el reloj usado para evaluar vencimientos.
func (s *ModuleService) WithClock(now func() time.Time) *ModuleService {
	s.now = now
	return s
}

// HasActiveModule es true si el módulo está contratado, activo y su expires_at es posterior a ahora.
// Un módulo no contratado es false sin error; un nombre desconocido es ErrInvalidInput.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" {
		return false, fmt.Errorf("%w: company_id obligatorio", domain.ErrInvalidInput)
	}
	if !entity.IsValidModule(moduleName) {
		return false, fmt.Errorf("%w: módulo %q desconocido", domain.ErrInvalidInput, moduleName)
	}
	m, err := s.companies.GetModule(ctx, companyID, moduleName)
	if err != nil {
		return false, err
	}
	return m.Enabled(s.now()), nil
}

// ActiveModules nombres de los módulos habilitados en este instante, en orden de AllModules.
func (s *ModuleService) ActiveModules(ctx context.Context, companyID string) ([]string, error) {
	list, err := s.companies.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	byName := make(map[string]*entity.CompanyModule, len(list))
	for _, m := range list {
		byName[m.ModuleName] = m
	}
	out := []string{}
	for _, name := range entity.AllModules {
		if byName[name].Enabled(now) {
			out = append(out, name)
		}
	}
	return out, nil
}
