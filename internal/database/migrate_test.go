package database

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedAndEmbedded(t *testing.T) {
	names, err := migrationFiles(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	require.Equal(t, "0001_init.up.sql", names[0])
	for i := 1; i < len(names); i++ {
		require.Less(t, names[i-1], names[i])
	}
}

func TestInitMigration_DeclaresUniqueContactKeys(t *testing.T) {
	body, err := migrationFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	sql := string(body)
	require.True(t, strings.Contains(sql, "UNIQUE KEY uq_users_email (email)"))
	require.True(t, strings.Contains(sql, "UNIQUE KEY uq_users_phone (phone)"))
}

func TestDSN_UTCAndFoundRows(t *testing.T) {
	dsn := DSN("app", "secret", "db", "3306", "fleetease")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "app", cfg.User)
	require.Equal(t, "secret", cfg.Passwd)
	require.Equal(t, "db:3306", cfg.Addr)
	require.Equal(t, "fleetease", cfg.DBName)
	require.True(t, cfg.ParseTime)
	require.True(t, cfg.ClientFoundRows)
	require.Equal(t, time.UTC, cfg.Loc)
}
