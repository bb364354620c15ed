package ports

import "context"

// IdempotencyStore reserva claves Idempotency-Key por empresa.
// Reserve devuelve false si la clave ya fue usada dentro del TTL.
type IdempotencyStore interface {
	Reserve(ctx context.Context, companyID, key string) (bool, error)
	Release(ctx context.Context, companyID, key string) error
}
