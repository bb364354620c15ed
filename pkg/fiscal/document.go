// Package fiscal agrupa validaciones de documentos fiscales brasileños (CNPJ, CPF y
// chave de acesso de la NFe). Todas las funciones aceptan el valor con o sin máscara.
package fiscal

import (
	"fmt"
	"unicode"
)

// pesos del primer dígito verificador del CNPJ; el segundo antepone 6.
var cnpjWeights = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// OnlyDigits elimina puntos, barras, guiones y cualquier otro carácter no numérico.
func OnlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// ValidateCNPJ valida los dos dígitos verificadores del CNPJ (módulo 11).
// cnpj puede ser "11.222.333/0001-81" o "11222333000181".
func ValidateCNPJ(cnpj string) error {
	digits := OnlyDigits(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("fiscal: CNPJ debe tener 14 dígitos, se encontraron %d", len(digits))
	}
	if repeated(digits) {
		return fmt.Errorf("fiscal: CNPJ con dígitos repetidos")
	}
	d1 := mod11(digits[:12], cnpjWeights[:])
	weights2 := append([]int{6}, cnpjWeights[:]...)
	d2 := mod11(digits[:12]+string(rune('0'+d1)), weights2)
	if int(digits[12]-'0') != d1 || int(digits[13]-'0') != d2 {
		return fmt.Errorf("fiscal: dígitos verificadores del CNPJ inválidos: esperado %d%d", d1, d2)
	}
	return nil
}

// ValidateCPF valida los dos dígitos verificadores del CPF (módulo 11).
func ValidateCPF(cpf string) error {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("fiscal: CPF debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	if repeated(digits) {
		return fmt.Errorf("fiscal: CPF con dígitos repetidos")
	}
	d1 := mod11(digits[:9], descending(10, 9))
	d2 := mod11(digits[:9]+string(rune('0'+d1)), descending(11, 10))
	if int(digits[9]-'0') != d1 || int(digits[10]-'0') != d2 {
		return fmt.Errorf("fiscal: dígitos verificadores del CPF inválidos: esperado %d%d", d1, d2)
	}
	return nil
}

// ValidateTaxID acepta CNPJ (14 dígitos) o CPF (11 dígitos).
func ValidateTaxID(doc string) error {
	if len(OnlyDigits(doc)) == 11 {
		return ValidateCPF(doc)
	}
	return ValidateCNPJ(doc)
}

func mod11(digits string, weights []int) int {
	var sum int
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func descending(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from - i
	}
	return out
}

func repeated(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
