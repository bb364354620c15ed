// Package finance contiene las reglas puras del ciclo de cuentas por pagar:
// división en cuotas y calendario de vencimientos.
package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxInstallments límite de cuotas por cuenta.
const MaxInstallments = 360

// cents precisión monetaria (2 decimales).
const cents = 2

// Schedule una cuota planificada antes de persistir.
type Schedule struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
}

// Split divide total en n cuotas mensuales a partir de firstDue.
// Cada cuota recibe trunc2(total/n); el residuo decimal va a la primera cuota,
// de modo que la suma es exactamente total.
func Split(total decimal.Decimal, n int, firstDue time.Time) ([]Schedule, error) {
	if n < 1 || n > MaxInstallments {
		return nil, fmt.Errorf("finance: número de cuotas fuera de rango (1..%d): %d", MaxInstallments, n)
	}
	total = total.Round(cents)
	if !total.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("finance: el total debe ser positivo")
	}
	base := total.Div(decimal.NewFromInt(int64(n))).Truncate(cents)
	remainder := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))

	out := make([]Schedule, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == 0 {
			amount = base.Add(remainder)
		}
		out[i] = Schedule{
			Number:  i + 1,
			DueDate: AddMonths(firstDue, i),
			Amount:  amount,
		}
	}
	return out, nil
}

// Explicit valida un calendario explícito (ej. duplicatas de NFe): la suma debe coincidir con total.
func Explicit(total decimal.Decimal, dues []time.Time, amounts []decimal.Decimal) ([]Schedule, error) {
	if len(dues) == 0 || len(dues) != len(amounts) {
		return nil, fmt.Errorf("finance: calendario vacío o inconsistente")
	}
	if len(dues) > MaxInstallments {
		return nil, fmt.Errorf("finance: demasiadas cuotas: %d", len(dues))
	}
	sum := decimal.Zero
	out := make([]Schedule, len(dues))
	for i := range dues {
		if !amounts[i].GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("finance: la cuota %d debe ser positiva", i+1)
		}
		amount := amounts[i].Round(cents)
		sum = sum.Add(amount)
		out[i] = Schedule{Number: i + 1, DueDate: dues[i], Amount: amount}
	}
	if !sum.Equal(total.Round(cents)) {
		return nil, fmt.Errorf("finance: la suma de las cuotas (%s) difiere del total (%s)", sum.StringFixed(cents), total.StringFixed(cents))
	}
	return out, nil
}

// AddMonths suma months meses a t; si el día no existe en el mes destino se usa el último día
// (31/01 + 1 mes = 28/02 o 29/02).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := target.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
