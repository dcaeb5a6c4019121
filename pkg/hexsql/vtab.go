//go:build sqlite_vtable

package hexsql

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// Visible columns of every table-valued function; the operation's
// parameters follow as hidden columns.
const (
	colHex = iota
	colQ
	colR
	colOrd
	firstArgCol
)

// missingArgCost steers the planner away from plans that leave a parameter
// unconstrained.
const missingArgCost = 1e18

func installModules(conn *sqlite3.SQLiteConn, limits query.Limits) error {
	for _, op := range query.SetOps() {
		if err := conn.CreateModule(op.Name, &setModule{op: op, limits: limits}); err != nil {
			return fmt.Errorf("failed to create module %s: %w", op.Name, err)
		}
	}
	return nil
}

// setModule exposes one set operation as an eponymous table-valued
// function.
type setModule struct {
	op     query.SetOp
	limits query.Limits
}

func (m *setModule) EponymousOnlyModule() {}

func (m *setModule) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.Connect(c, args)
}

func (m *setModule) Connect(c *sqlite3.SQLiteConn, _ []string) (sqlite3.VTab, error) {
	cols := []string{"hex TEXT", "q INTEGER", "r INTEGER", "ord INTEGER"}
	for _, p := range m.op.Params {
		cols = append(cols, p.Name+" HIDDEN")
	}
	if err := c.DeclareVTab(fmt.Sprintf("CREATE TABLE x(%s)", strings.Join(cols, ", "))); err != nil {
		return nil, fmt.Errorf("%s: %w", m.op.Name, err)
	}
	return &setTable{module: m}, nil
}

func (m *setModule) DestroyModule() {}

type setTable struct {
	module *setModule
}

// BestIndex asks for an equality constraint on every hidden parameter
// column. IdxStr records, in argv order, which parameter each value binds.
func (t *setTable) BestIndex(csts []sqlite3.InfoConstraint, _ []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
	nparams := len(t.module.op.Params)
	used := make([]bool, len(csts))
	seen := make([]bool, nparams)
	var order []string
	for i, c := range csts {
		p := c.Column - firstArgCol
		if p < 0 || p >= nparams || !c.Usable || c.Op != sqlite3.OpEQ || seen[p] {
			continue
		}
		used[i] = true
		seen[p] = true
		order = append(order, strconv.Itoa(p))
	}
	cost := 1.0
	if len(order) != nparams {
		cost = missingArgCost
	}
	return &sqlite3.IndexResult{
		Used:          used,
		IdxNum:        len(order),
		IdxStr:        strings.Join(order, ","),
		EstimatedCost: cost,
	}, nil
}

func (t *setTable) Open() (sqlite3.VTabCursor, error) {
	return &setCursor{table: t, eof: true}, nil
}

func (t *setTable) Disconnect() error { return nil }

func (t *setTable) Destroy() error { return nil }

// setCursor pulls coordinates from its own sequence; cursors share nothing.
type setCursor struct {
	table *setTable
	args  []any
	next  func() (hex.Axial, bool)
	stop  func()
	cur   hex.Axial
	ord   int64
	eof   bool
}

func (c *setCursor) Filter(_ int, idxStr string, vals []any) error {
	c.release()
	op := c.table.module.op

	values := make([]any, len(op.Params))
	bound := make([]bool, len(op.Params))
	if idxStr != "" {
		for i, s := range strings.Split(idxStr, ",") {
			p, err := strconv.Atoi(s)
			if err != nil || p >= len(values) || i >= len(vals) {
				return fmt.Errorf("%s: bad index plan %q", op.Name, idxStr)
			}
			values[p] = vals[i]
			bound[p] = true
		}
	}
	for i, ok := range bound {
		if !ok {
			return fmt.Errorf("%s: missing argument %s", op.Name, op.Params[i].Name)
		}
	}

	args, err := op.Args(values)
	if err != nil {
		return err
	}
	seq, err := op.Open(c.table.module.limits, args)
	if err != nil {
		return err
	}
	c.args = values
	c.start(seq)
	return c.Next()
}

func (c *setCursor) start(seq iter.Seq[hex.Axial]) {
	c.next, c.stop = iter.Pull(seq)
	c.ord = -1
	c.eof = false
}

func (c *setCursor) release() {
	if c.stop != nil {
		c.stop()
	}
	c.next, c.stop = nil, nil
	c.eof = true
}

func (c *setCursor) Next() error {
	if c.next == nil {
		c.eof = true
		return nil
	}
	p, ok := c.next()
	if !ok {
		c.release()
		return nil
	}
	c.cur = p
	c.ord++
	return nil
}

func (c *setCursor) EOF() bool { return c.eof }

func (c *setCursor) Column(ctx *sqlite3.SQLiteContext, col int) error {
	switch col {
	case colHex:
		ctx.ResultText(c.cur.String())
	case colQ:
		ctx.ResultInt64(int64(c.cur.Q))
	case colR:
		ctx.ResultInt64(int64(c.cur.R))
	case colOrd:
		ctx.ResultInt64(c.ord)
	default:
		resultAny(ctx, c.argAt(col-firstArgCol))
	}
	return nil
}

func (c *setCursor) argAt(i int) any {
	if i < 0 || i >= len(c.args) {
		return nil
	}
	return c.args[i]
}

func resultAny(ctx *sqlite3.SQLiteContext, v any) {
	switch x := v.(type) {
	case int64:
		ctx.ResultInt64(x)
	case string:
		ctx.ResultText(x)
	case []byte:
		ctx.ResultBlob(x)
	case float64:
		ctx.ResultDouble(x)
	default:
		ctx.ResultNull()
	}
}

func (c *setCursor) Rowid() (int64, error) { return c.ord, nil }

func (c *setCursor) Close() error {
	c.release()
	return nil
}
