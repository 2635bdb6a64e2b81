package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/fulldump/jsontable/database"
	"github.com/fulldump/jsontable/logging"
	"github.com/fulldump/jsontable/table"
)

type options struct {
	dir      string
	ext      string
	logLevel string
}

func newRootCommand() *cobra.Command {

	o := &options{}

	root := &cobra.Command{
		Use:   "jsontable",
		Short: "Query and modify flat-file JSON tables",
		Long: `jsontable works on a directory where every table is a single file
holding a JSON array of rows. Values are parsed as JSON when possible and
taken as plain strings otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&o.dir, "dir", ".", "database directory")
	root.PersistentFlags().StringVar(&o.ext, "ext", database.DefaultExtension, "table file extension")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level: debug | info | warn | error")

	root.AddCommand(
		operationCommand(o, "select-all TABLE", "Print every row", "selectAll", 1, nil),
		operationCommand(o, "select TABLE FIELD VALUE", "Print rows whose FIELD is loosely equal to VALUE", "select", 3, fieldValue),
		insertCommand(o),
		operationCommand(o, "update TABLE FIELD VALUE ROW", "Replace the first row whose FIELD is loosely equal to VALUE", "update", 4, updateArgs),
		operationCommand(o, "update-all TABLE ROW", "Replace the whole table with ROW as its only row", "updateAll", 2, rowArg(1)),
		operationCommand(o, "delete TABLE FIELD VALUE", "Delete every row whose FIELD is loosely equal to VALUE", "delete", 3, fieldValue),
		operationCommand(o, "delete-all TABLE", "Delete every row", "deleteAll", 1, nil),
		operationCommand(o, "create TABLE", "Create an empty table if it does not exist", "createTable", 1, nil),
		operationCommand(o, "drop TABLE", "Delete the table file", "dropTable", 1, nil),
		listCommand(o),
	)

	return root
}

type argsParser func(positional []string, args *database.Args) error

func operationCommand(o *options, use, short, op string, n int, parse argsParser) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(n),
		RunE: func(cmd *cobra.Command, positional []string) error {
			args := database.Args{Table: positional[0]}
			if parse != nil {
				err := parse(positional, &args)
				if err != nil {
					return err
				}
			}
			return run(cmd, o, op, args)
		},
	}
}

func insertCommand(o *options) *cobra.Command {
	create := false
	cmd := &cobra.Command{
		Use:   "insert TABLE ROW",
		Short: "Append ROW to the table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, positional []string) error {
			args := database.Args{Table: positional[0], Create: create}
			err := rowArg(1)(positional, &args)
			if err != nil {
				return err
			}
			return run(cmd, o, "insert", args)
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the table if it does not exist")
	return cmd
}

func listCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			db, err := open(o)
			if err != nil {
				return err
			}
			names, err := db.ListTables()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), names)
		},
	}
}

func open(o *options) (*database.Database, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return database.NewDatabase(&database.Config{
		Dir:       o.dir,
		Extension: o.ext,
	}, logging.New(level))
}

// run forwards one operation. Closing the database is what saves the table,
// so its error is reported too.
func run(cmd *cobra.Command, o *options, op string, args database.Args) (err error) {

	db, err := open(o)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	result, err := db.Call(op, args)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	err := json.MarshalWrite(w, v, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func fieldValue(positional []string, args *database.Args) error {
	args.Field = positional[1]
	args.Value = parseValue(positional[2])
	return nil
}

func updateArgs(positional []string, args *database.Args) error {
	err := fieldValue(positional, args)
	if err != nil {
		return err
	}
	return rowArg(3)(positional, args)
}

func rowArg(i int) argsParser {
	return func(positional []string, args *database.Args) error {
		row := table.Row{}
		err := json.Unmarshal([]byte(positional[i]), &row)
		if err != nil {
			return fmt.Errorf("row must be a JSON object: %w", err)
		}
		args.Row = row
		return nil
	}
}

// parseValue decodes s as JSON, falling back to the raw string so that
// `select users name Pablo` works without quoting.
func parseValue(s string) any {
	v, err := table.ParseValue([]byte(s))
	if err != nil {
		return s
	}
	return v
}
