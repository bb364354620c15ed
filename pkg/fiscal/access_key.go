package fiscal

import "fmt"

// AccessKeyLength longitud de la chave de acesso de NFe/NFC-e.
const AccessKeyLength = 44

// AccessKey campos de la chave de acesso (Manual de Orientação do Contribuinte, leiaute 4.00).
type AccessKey struct {
	Key        string
	UF         string // código IBGE del estado emisor
	YearMonth  string // AAMM de emisión
	EmitterDoc string // CNPJ (o CPF con ceros a la izquierda)
	Model      string // 55 = NFe, 65 = NFC-e
	Series     string
	Number     string
	EmissionTp string
	Code       string // cNF
	CheckDigit string
}

// ParseAccessKey valida la chave (44 dígitos, DV módulo 11 con pesos 2..9) y la descompone.
func ParseAccessKey(raw string) (*AccessKey, error) {
	key := OnlyDigits(raw)
	if len(key) != AccessKeyLength {
		return nil, fmt.Errorf("fiscal: chave de acesso debe tener %d dígitos, se encontraron %d", AccessKeyLength, len(key))
	}
	expected := AccessKeyCheckDigit(key[:43])
	if int(key[43]-'0') != expected {
		return nil, fmt.Errorf("fiscal: dígito verificador de la chave inválido: esperado %d", expected)
	}
	return &AccessKey{
		Key:        key,
		UF:         key[0:2],
		YearMonth:  key[2:6],
		EmitterDoc: key[6:20],
		Model:      key[20:22],
		Series:     key[22:25],
		Number:     key[25:34],
		EmissionTp: key[34:35],
		Code:       key[35:43],
		CheckDigit: key[43:],
	}, nil
}

// AccessKeyCheckDigit calcula el DV para los 43 primeros dígitos de la chave.
// Los pesos 2..9 se aplican de derecha a izquierda, reiniciando en 2.
func AccessKeyCheckDigit(first43 string) int {
	var sum int
	weight := 2
	for i := len(first43) - 1; i >= 0; i-- {
		sum += int(first43[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
