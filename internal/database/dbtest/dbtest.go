// Package dbtest provides SQLite fixture databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/database"
)

// TownClientScript creates the Town, Client and Order tables.
// Client 3 references a town that does not exist, Client 4 has no town and
// Client 5 lives in town 0. Every order has a client; Order 2 has no town and
// Order 3 references a missing one.
const TownClientScript = `
CREATE TABLE Town (
	idTown INTEGER PRIMARY KEY,
	town VARCHAR(64) NOT NULL,
	population INTEGER,
	bigcity INTEGER
);
CREATE TABLE Client (
	idClient INTEGER PRIMARY KEY,
	name VARCHAR(64) NOT NULL,
	idTown INTEGER
);
CREATE TABLE `+"`Order`"+` (
	idOrder INTEGER PRIMARY KEY,
	label VARCHAR(64) NOT NULL,
	idClient INTEGER,
	idTown INTEGER
);
INSERT INTO Town VALUES (0, 'NO MAN S LAND', 0, 0);
INSERT INTO Town VALUES (1, 'PARIS', 1000000, 1);
INSERT INTO Town VALUES (2, 'LYON', 500000, 1);
INSERT INTO Client VALUES (1, 'Dupont', 1);
INSERT INTO Client VALUES (2, 'Durand', 2);
INSERT INTO Client VALUES (3, 'Dumont', 3);
INSERT INTO Client VALUES (4, 'Dumas', NULL);
INSERT INTO Client VALUES (5, 'Dumat', 0);
INSERT INTO `+"`Order`"+` VALUES (1, 'first', 1, 2);
INSERT INTO `+"`Order`"+` VALUES (2, 'no town', 2, NULL);
INSERT INTO `+"`Order`"+` VALUES (3, 'dangling town', 1, 9);
`

// Path returns the path of a new, empty database file in a test directory.
func Path(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "fixture.db")
}

// Create writes the fixture tables to path.
func Create(t testing.TB, path string) {
	t.Helper()
	db, err := database.NewSQLiteDatabase(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.ExecScript(context.Background(), TownClientScript))
}

// NewTownClientDB opens a fresh Town/Client fixture database, closed when the test ends.
func NewTownClientDB(t testing.TB) *database.SQLDatabase {
	t.Helper()
	path := Path(t)
	Create(t, path)

	db, err := database.NewSQLiteDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
