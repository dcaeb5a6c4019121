//go:build sqlite_vtable

package hexsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

func TestTableValuedRange(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	rows, err := db.Query(`SELECT hex FROM hexes_in_range('[0, 1]', 1)`)
	require.NoError(t, err)
	defer rows.Close()
	var got []hex.Axial
	for rows.Next() {
		var a hex.Axial
		require.NoError(t, rows.Scan(&a))
		got = append(got, a)
	}
	require.NoError(t, rows.Err())
	assert.ElementsMatch(t,
		[]hex.Axial{{Q: 0, R: 1}, {Q: 1, R: 1}, {Q: 1, R: 0}, {Q: 0, R: 0}, {Q: -1, R: 1}, {Q: -1, R: 2}, {Q: 0, R: 2}},
		got)

	assert.Equal(t, int64(37), queryInt(t, db, `SELECT count(*) FROM hexes_in_range('[5,5]', 3)`))
	assert.Equal(t, int64(1), queryInt(t, db, `SELECT count(*) FROM hexes_in_range('[5,5]', 0)`))
	assert.Equal(t, int64(18), queryInt(t, db, `SELECT count(*) FROM ring_path('[0,0]', 3)`))
	assert.Equal(t, int64(37), queryInt(t, db, `SELECT count(*) FROM spiral_path('[0,0]', 3)`))
	assert.Equal(t, int64(6), queryInt(t, db, `SELECT count(*) FROM neighbors('[0,0]')`))
	assert.Equal(t, int64(6), queryInt(t, db, `SELECT count(*) FROM diagonals('[0,0]')`))
}

func TestTableValuedLinedraw(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	rows, err := db.Query(`SELECT q, r, ord FROM linedraw('[0,0]', '[3,0]') ORDER BY ord`)
	require.NoError(t, err)
	defer rows.Close()
	var got []hex.Axial
	var ords []int64
	for rows.Next() {
		var q, r int32
		var ord int64
		require.NoError(t, rows.Scan(&q, &r, &ord))
		got = append(got, hex.Axial{Q: q, R: r})
		ords = append(ords, ord)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []hex.Axial{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: 0}, {Q: 3, R: 0}}, got)
	assert.Equal(t, []int64{0, 1, 2, 3}, ords)
}

func TestTableValuedErrors(t *testing.T) {
	db := openTestDB(t, query.Limits{MaxRadius: 5})

	var s string
	err := db.QueryRow(`SELECT hex FROM hexes_in_range('[0,0]', -1)`).Scan(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")

	var n int64
	err = db.QueryRow(`SELECT count(*) FROM hexes_in_range('[0,0]', 6)`).Scan(&n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	err = db.QueryRow(`SELECT count(*) FROM hexes_in_range('[0]', 1)`).Scan(&n)
	require.Error(t, err)
}

// Table-valued functions compose with stored positions: which units can
// reach each other's neighborhoods.
func TestTableValuedJoin(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	_, err := db.Exec(`CREATE TABLE units (name TEXT, pos TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO units VALUES ('scout', ?), ('tower', ?), ('far', ?)`,
		hex.Axial{Q: 0, R: 0}, hex.Axial{Q: 2, R: -1}, hex.Axial{Q: 9, R: 9})
	require.NoError(t, err)

	rows, err := db.Query(`
		SELECT other.name FROM units me, hexes_in_range(me.pos, 2) h
		JOIN units other ON other.pos = h.hex
		WHERE me.name = 'scout' AND other.name <> me.name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		names = append(names, s)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"tower"}, names)

	assert.Equal(t, int64(1), queryInt(t, db,
		`SELECT count(*) FROM units WHERE pos IN (SELECT hex FROM neighbors('[1,-1]')) AND name = 'scout'`))
}
