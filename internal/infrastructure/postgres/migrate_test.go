package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	got, err := pgx5URL("postgres://u:p%40ss@db:5432/gestao?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p%40ss@db:5432/gestao?sslmode=disable", got)

	got, err = pgx5URL("postgresql://db/gestao")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/gestao", got)

	_, err = pgx5URL("mysql://db/gestao")
	assert.Error(t, err)
}

func TestMigrationsEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Zero(t, len(files)%2, "cada migración up tiene su down")
}
