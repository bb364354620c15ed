package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Finanzas
	ErrAccountInactive       = errors.New("cuenta bancaria inactiva")
	ErrLinkedTransaction     = errors.New("la transacción está vinculada a una cuota o venta")
	ErrBillHasPayments       = errors.New("la cuenta por pagar tiene cuotas pagadas")
	ErrInstallmentNotPending = errors.New("la cuota no está pendiente")
	ErrInstallmentNotPaid    = errors.New("la cuota no está pagada")

	// Ventas
	ErrSaleCanceled = errors.New("la venta ya fue cancelada")

	// NFe
	ErrInvalidAccessKey   = errors.New("chave de acesso inválida")
	ErrNFeAlreadyLaunched = errors.New("la NFe ya fue lanzada al stock")
	ErrNFeUnmappedItems   = errors.New("la NFe tiene ítems sin vincular")
)
