package db

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/folio/internal/config"
)

func TestDSN(t *testing.T) {
	require.Equal(t, "postgres://u:p@h/db", DSN(config.DatabaseConfig{DSN: "postgres://u:p@h/db", Host: "ignored"}))
	require.Equal(t,
		"host=db port=5432 user=folio password=pw dbname=folio sslmode=disable",
		DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "folio", Password: "pw", DBName: "folio"}),
	)
}

func TestMigrationFilesOrdered(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"0001_shared_links.sql", "0002_content.sql"}, files)
}
