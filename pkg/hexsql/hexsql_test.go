package hexsql

import (
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

func openTestDB(t *testing.T, limits query.Limits) *sql.DB {
	t.Helper()
	db, err := Open(":memory:", limits)
	require.NoError(t, err)
	// each :memory: connection is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func queryString(t *testing.T, db *sql.DB, q string, args ...any) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRow(q, args...).Scan(&s))
	return s
}

func queryInt(t *testing.T, db *sql.DB, q string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.QueryRow(q, args...).Scan(&n))
	return n
}

func TestScalarFunctions(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	assert.Equal(t, `{"q":0,"r":-2}`, queryString(t, db, `SELECT hex_parse('[0, -2]')`))
	assert.Equal(t, `{"q":1,"r":2}`, queryString(t, db, `SELECT hex_parse('{"r":2,"q":1}')`))
	assert.Equal(t, `{"q":4,"r":6}`, queryString(t, db, `SELECT hex_add('[1,2]', '[3,4]')`))
	assert.Equal(t, `{"q":-2,"r":-2}`, queryString(t, db, `SELECT hex_sub('[1,2]', '[3,4]')`))
	assert.Equal(t, `{"q":3,"r":-6}`, queryString(t, db, `SELECT hex_scale('[1,-2]', 3)`))
	assert.Equal(t, `{"q":7,"r":-1}`, queryString(t, db, `SELECT hex_make(7, -1)`))
	assert.Equal(t, int64(6), queryInt(t, db, `SELECT hex_distance('[1,2]', '[3,-4]')`))
	assert.Equal(t, int64(-3), queryInt(t, db, `SELECT hex_q('[-3, 8]')`))
	assert.Equal(t, int64(8), queryInt(t, db, `SELECT hex_r('[-3, 8]')`))
	assert.Equal(t, int64(1), queryInt(t, db, `SELECT hex_eq('[0,1]', '{"q":0,"r":1}')`))
	assert.Equal(t, int64(0), queryInt(t, db, `SELECT hex_eq('[0,1]', '[1,0]')`))
	assert.Equal(t, int64(-1), queryInt(t, db, `SELECT hex_cmp('[0,5]', '[1,-5]')`))
}

func TestScalarFunctionErrors(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	for _, q := range []string{
		`SELECT hex_parse('[1]')`,
		`SELECT hex_parse('[1.5, 2]')`,
		`SELECT hex_parse(NULL)`,
		`SELECT hex_make(2147483648, 0)`,
		`SELECT hex_add('[2147483647, 0]', '[1, 0]')`,
	} {
		var s sql.NullString
		err := db.QueryRow(q).Scan(&s)
		assert.Error(t, err, q)
	}

	var s string
	err := db.QueryRow(`SELECT hex_parse('[1,2,3]')`).Scan(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 components")
}

func TestSetFunctionsThroughJSONEach(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	rows, err := db.Query(`SELECT value FROM json_each(hexes_in_range_json('[0, 1]', 1))`)
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

	assert.Equal(t,
		`[{"q":0,"r":0},{"q":1,"r":0},{"q":2,"r":0},{"q":3,"r":0}]`,
		queryString(t, db, `SELECT linedraw_json('[0,0]', '[3,0]')`))
	assert.Equal(t, int64(6), queryInt(t, db, `SELECT json_array_length(neighbors_json('[1,2]'))`))
	assert.Equal(t, int64(6), queryInt(t, db, `SELECT json_array_length(diagonals_json('[1,2]'))`))
	assert.Equal(t, int64(12), queryInt(t, db, `SELECT json_array_length(ring_path_json('[1,2]', 2))`))
	assert.Equal(t, int64(19), queryInt(t, db, `SELECT json_array_length(spiral_path_json('[1,2]', 2))`))
	assert.Equal(t, `[{"q":4,"r":4}]`, queryString(t, db, `SELECT hexes_in_range_json('[4,4]', 0)`))

	var s string
	err = db.QueryRow(`SELECT hexes_in_range_json('[0,0]', -1)`).Scan(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestLimitsApplyToSetFunctions(t *testing.T) {
	db := openTestDB(t, query.Limits{MaxRadius: 2, MaxLineDistance: 4})

	var s string
	err := db.QueryRow(`SELECT hexes_in_range_json('[0,0]', 3)`).Scan(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	err = db.QueryRow(`SELECT linedraw_json('[0,0]', '[5,0]')`).Scan(&s)
	require.Error(t, err)

	assert.Equal(t, int64(19), queryInt(t, db, `SELECT json_array_length(hexes_in_range_json('[0,0]', 2))`))
}

func TestCollation(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	_, err := db.Exec(`CREATE TABLE cells (pos TEXT)`)
	require.NoError(t, err)
	for _, lit := range []string{`[1, -1]`, `{"q":0,"r":5}`, `[0,-3]`, `[-2, 9]`} {
		_, err := db.Exec(`INSERT INTO cells (pos) VALUES (?)`, lit)
		require.NoError(t, err)
	}

	rows, err := db.Query(`SELECT hex_parse(pos) FROM cells ORDER BY pos COLLATE HEX`)
	require.NoError(t, err)
	defer rows.Close()
	var got []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		got = append(got, s)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{`{"q":-2,"r":9}`, `{"q":0,"r":-3}`, `{"q":0,"r":5}`, `{"q":1,"r":-1}`}, got)

	assert.Equal(t, int64(1), queryInt(t, db, `SELECT '[0,1]' = '{"q":0,"r":1}' COLLATE HEX`))
	assert.Equal(t, int64(1), queryInt(t, db, `SELECT count(DISTINCT pos COLLATE HEX) FROM (SELECT '[0,1]' AS pos UNION ALL SELECT '{"q":0,"r":1}')`))
}

func TestCollateFunction(t *testing.T) {
	in := []string{"zzz", `[1,0]`, `{"q":-1,"r":4}`, "abc", `[1,-1]`}
	sort.Slice(in, func(i, j int) bool { return Collate(in[i], in[j]) < 0 })
	assert.Equal(t, []string{`{"q":-1,"r":4}`, `[1,-1]`, `[1,0]`, "abc", "zzz"}, in)
	assert.Equal(t, 0, Collate(`[2, 3]`, `{"q":2,"r":3}`))
}

// A field-of-view query composed from the line drawer: a target is visible
// when no wall sits on the line before it.
func TestFieldOfViewQuery(t *testing.T) {
	db := openTestDB(t, query.Limits{})

	_, err := db.Exec(`CREATE TABLE walls (pos TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE targets (pos TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	for _, w := range []hex.Axial{{Q: 2, R: 0}, {Q: -1, R: -1}} {
		_, err := db.Exec(`INSERT INTO walls (pos) VALUES (?)`, w)
		require.NoError(t, err)
	}
	for _, tg := range []hex.Axial{{Q: 3, R: 0}, {Q: 0, R: 3}, {Q: 2, R: 0}, {Q: -2, R: -2}} {
		_, err := db.Exec(`INSERT INTO targets (pos) VALUES (?)`, tg)
		require.NoError(t, err)
	}

	rows, err := db.Query(`
		SELECT t.pos FROM targets t
		WHERE NOT EXISTS (
			SELECT 1 FROM json_each(linedraw_json(?, t.pos)) l
			JOIN walls w ON w.pos = l.value
			WHERE l.value <> t.pos)
		ORDER BY t.pos COLLATE HEX`, hex.Axial{})
	require.NoError(t, err)
	defer rows.Close()
	var visible []hex.Axial
	for rows.Next() {
		var a hex.Axial
		require.NoError(t, rows.Scan(&a))
		visible = append(visible, a)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []hex.Axial{{Q: 0, R: 3}, {Q: 2, R: 0}}, visible)
}

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	var s string
	require.NoError(t, db.QueryRow(`SELECT hex_parse('[3,3]')`).Scan(&s))
	assert.Equal(t, `{"q":3,"r":3}`, s)
}
