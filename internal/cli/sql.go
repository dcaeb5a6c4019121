package cli

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/hexgeo/pkg/hexsql"
)

// errCodeSQL reports errors raised by SQLite itself.
const errCodeSQL = "sql_error"

type sqlOptions struct {
	db string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &sqlOptions{}

	cmd := &cobra.Command{
		Use:   "sql [statement]",
		Short: "Run SQL against a database with the hex functions installed",
		Long: `Run SQL against the configured SQLite database with the hex scalar
functions, the HEX collation and, when built with the sqlite_vtable tag,
the table-valued set functions installed. The statement is read from
stdin when no argument is given.`,
		Example: `  hexgeo sql "SELECT hex_distance('[0,0]', '[3,-1]')"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, opts, args, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.db, "db", "", "database path (default database.path from config)")
	return cmd
}

func runSQL(rootOpts *RootOptions, opts *sqlOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd.OutOrStdout())

	var stmt string
	if len(args) == 1 {
		stmt = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read statement: %w", err)
		}
		stmt = string(data)
	}
	if strings.TrimSpace(stmt) == "" {
		return fmt.Errorf("no SQL statement given")
	}

	path := opts.db
	if path == "" {
		path = rootOpts.config.Database.Path
	}

	db, err := hexsql.Open(path, rootOpts.config.Limits.Query())
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(cmd.Context(), stmt)
	if err != nil {
		return f.Error(errCodeSQL, err)
	}
	defer rows.Close()

	columns, result, err := collectRows(rows)
	if err != nil {
		return f.Error(errCodeSQL, err)
	}

	return f.Success(result, func(w io.Writer) error {
		for _, row := range result {
			fields := make([]string, len(columns))
			for i, c := range columns {
				fields[i] = fmt.Sprint(row[c])
			}
			if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
				return err
			}
		}
		return nil
	})
}

func collectRows(rows *sql.Rows) ([]string, []map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		row := make(map[string]any, len(columns))
		for i, c := range columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		result = append(result, row)
	}
	return columns, result, rows.Err()
}
