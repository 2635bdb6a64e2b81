package database

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/jsontable/table"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewDatabase_NotFound(t *testing.T) {

	_, err := NewDatabase(&Config{Dir: filepath.Join(t.TempDir(), "missing")}, discard)
	biff.AssertTrue(errors.Is(err, ErrDatabaseNotFound))

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0666)
	_, err = NewDatabase(&Config{Dir: file}, discard)
	biff.AssertTrue(errors.Is(err, ErrDatabaseNotFound))
}

func TestOperations(t *testing.T) {
	biff.AssertEqual(Operations(), []string{
		"closeTable", "createTable", "delete", "deleteAll", "dropTable",
		"insert", "select", "selectAll", "update", "updateAll",
	})
}

func TestDatabase(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		dir := t.TempDir()
		db, err := NewDatabase(&Config{Dir: dir}, discard)
		biff.AssertNil(err)
		biff.AssertEqual(db.GetStatus(), StatusOperating)

		a.Alternative("Unknown operation", func(a *biff.A) {
			_, err := db.Call("truncate", Args{Table: "users"})
			biff.AssertTrue(errors.Is(err, ErrUnknownOperation))
		})

		a.Alternative("Invalid table name", func(a *biff.A) {
			for _, name := range []string{"", ".", "..", "../etc", `a\b`} {
				_, err := db.Call("selectAll", Args{Table: name})
				biff.AssertTrue(errors.Is(err, ErrInvalidTableName))
			}
		})

		a.Alternative("Missing table", func(a *biff.A) {
			_, err := db.Call("selectAll", Args{Table: "users"})
			biff.AssertTrue(errors.Is(err, table.ErrTableNotFound))

			_, err = db.Call("insert", Args{Table: "users", Row: table.Row{"id": 1}})
			biff.AssertTrue(errors.Is(err, table.ErrTableNotFound))
		})

		a.Alternative("Insert with create", func(a *biff.A) {
			_, err := db.Call("insert", Args{Table: "users", Row: table.Row{"id": 1, "name": "Pablo"}, Create: true})
			biff.AssertNil(err)

			data, _ := os.ReadFile(filepath.Join(dir, "users.json"))
			biff.AssertEqual(string(data), `[{"id":1,"name":"Pablo"}]`)
			biff.AssertEqual(db.OpenTables(), []string{})

			a.Alternative("Select", func(a *biff.A) {
				result, err := db.Call("select", Args{Table: "users", Field: "id", Value: "1"})
				biff.AssertNil(err)
				biff.AssertEqualJson(result, []table.Row{{"id": 1, "name": "Pablo"}})
			})

			a.Alternative("Update", func(a *biff.A) {
				result, err := db.Call("update", Args{Table: "users", Field: "id", Value: 1, Row: table.Row{"id": 1, "name": "Sara"}})
				biff.AssertNil(err)
				biff.AssertEqual(result, true)

				rows, _ := db.Call("selectAll", Args{Table: "users"})
				biff.AssertEqualJson(rows, []table.Row{{"id": 1, "name": "Sara"}})
			})

			a.Alternative("Delete", func(a *biff.A) {
				result, err := db.Call("delete", Args{Table: "users", Field: "name", Value: "Pablo"})
				biff.AssertNil(err)
				biff.AssertEqual(result, 1)
			})

			a.Alternative("Drop table", func(a *biff.A) {
				_, err := db.Call("dropTable", Args{Table: "users"})
				biff.AssertNil(err)

				_, err = db.Call("selectAll", Args{Table: "users"})
				biff.AssertTrue(errors.Is(err, table.ErrTableNotFound))
			})

			a.Alternative("List tables", func(a *biff.A) {
				os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0666)
				db.Call("createTable", Args{Table: "orders"})

				names, err := db.ListTables()
				biff.AssertNil(err)
				biff.AssertEqual(names, []string{"orders", "users"})
			})
		})

		a.Alternative("Close", func(a *biff.A) {
			biff.AssertNil(db.Close())
			biff.AssertEqual(db.GetStatus(), StatusClosing)

			_, err := db.Call("createTable", Args{Table: "users"})
			biff.AssertTrue(errors.Is(err, ErrDatabaseClosed))
		})
	})
}

func TestDatabase_KeepOpen(t *testing.T) {

	dir := t.TempDir()
	db, err := NewDatabase(&Config{Dir: dir, Extension: ".tbl", KeepOpen: true}, discard)
	biff.AssertNil(err)

	filename := filepath.Join(dir, "events.tbl")

	_, err = db.Call("createTable", Args{Table: "events"})
	biff.AssertNil(err)
	_, err = db.Call("insert", Args{Table: "events", Row: table.Row{"kind": "start"}})
	biff.AssertNil(err)
	_, err = db.Call("insert", Args{Table: "events", Row: table.Row{"kind": "stop"}})
	biff.AssertNil(err)

	biff.AssertEqual(db.OpenTables(), []string{"events"})
	data, _ := os.ReadFile(filename)
	biff.AssertEqual(string(data), "")

	_, err = db.Call("closeTable", Args{Table: "events"})
	biff.AssertNil(err)
	biff.AssertEqual(db.OpenTables(), []string{})

	data, _ = os.ReadFile(filename)
	biff.AssertEqual(string(data), `[{"kind":"start"},{"kind":"stop"}]`)

	_, err = db.Call("updateAll", Args{Table: "events", Row: table.Row{"kind": "reset"}})
	biff.AssertNil(err)
	biff.AssertNil(db.Close())

	data, _ = os.ReadFile(filename)
	biff.AssertEqual(string(data), `[{"kind":"reset"}]`)
}
