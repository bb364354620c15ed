package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/pkg/fiscal"
)

const testAccessKey = "35240611222333000181550010000012341123456782"

func TestValidateCNPJ(t *testing.T) {
	assert.NoError(t, fiscal.ValidateCNPJ("11.222.333/0001-81"))
	assert.NoError(t, fiscal.ValidateCNPJ("12345678000195"))
	assert.Error(t, fiscal.ValidateCNPJ("11222333000182"), "DV alterado")
	assert.Error(t, fiscal.ValidateCNPJ("11111111111111"), "dígitos repetidos")
	assert.Error(t, fiscal.ValidateCNPJ("1122233300018"), "13 dígitos")
}

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, fiscal.ValidateCPF("529.982.247-25"))
	assert.Error(t, fiscal.ValidateCPF("52998224724"))
	assert.Error(t, fiscal.ValidateCPF("00000000000"))
}

func TestValidateTaxID_EligeCPFoCNPJ(t *testing.T) {
	assert.NoError(t, fiscal.ValidateTaxID("52998224725"))
	assert.NoError(t, fiscal.ValidateTaxID("11222333000181"))
	assert.Error(t, fiscal.ValidateTaxID("123"))
}

func TestParseAccessKey(t *testing.T) {
	key, err := fiscal.ParseAccessKey("NFe" + testAccessKey)
	require.NoError(t, err)
	assert.Equal(t, testAccessKey, key.Key)
	assert.Equal(t, "35", key.UF)
	assert.Equal(t, "2406", key.YearMonth)
	assert.Equal(t, "11222333000181", key.EmitterDoc)
	assert.Equal(t, "55", key.Model)
	assert.Equal(t, "001", key.Series)
	assert.Equal(t, "000001234", key.Number)
	assert.Equal(t, "2", key.CheckDigit)
}

func TestParseAccessKey_DVInvalido(t *testing.T) {
	_, err := fiscal.ParseAccessKey(testAccessKey[:43] + "3")
	assert.Error(t, err)

	_, err = fiscal.ParseAccessKey("123")
	assert.Error(t, err)
}
