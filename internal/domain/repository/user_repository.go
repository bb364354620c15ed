package repository

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// El email es único en todo el sistema: el login no pide empresa.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, companyID, id string) error
}
