package database

import (
	"strings"
	"testing"

	"travel-journal/config"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Mysql{
		Host:     "db.local",
		Port:     "3307",
		Username: "journal",
		Password: "p@ss",
		DBName:   "travel_journal",
	})
	require.True(t, strings.HasPrefix(dsn, "journal:p@ss@tcp(db.local:3307)/travel_journal?"), dsn)
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "charset=utf8mb4")
	require.Contains(t, dsn, "loc=Local")
}
