package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/pkg/config"
)

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/gestao?sslmode=disable", MaxConns: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 7, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.NotNil(t, pc.AfterConnect)
	assert.Equal(t, "db", pc.ConnConfig.Host)

	pc, err = poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/gestao", MaxConns: 1, ForceIPv4: true})
	require.NoError(t, err)
	assert.Zero(t, pc.MinConns, "MinConns nunca supera MaxConns")
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@db:notaport/x"})
	assert.Error(t, err)
}

func TestLookupIPv4_Literales(t *testing.T) {
	ip, err := lookupIPv4(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = lookupIPv4(context.Background(), "::1")
	assert.ErrorIs(t, err, errNoIPv4)
}
