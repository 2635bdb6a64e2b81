package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/jsontable/table"
)

func execute(dir string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		dir := t.TempDir()

		a.Alternative("Missing table", func(a *biff.A) {
			_, err := execute(dir, "select-all", "users")
			biff.AssertTrue(errors.Is(err, table.ErrTableNotFound))
		})

		a.Alternative("Insert without create", func(a *biff.A) {
			_, err := execute(dir, "insert", "users", `{"id":1}`)
			biff.AssertTrue(errors.Is(err, table.ErrTableNotFound))
		})

		a.Alternative("Row must be an object", func(a *biff.A) {
			_, err := execute(dir, "insert", "--create", "users", `[1,2]`)
			biff.AssertNotNil(err)
		})

		a.Alternative("Insert with create", func(a *biff.A) {
			_, err := execute(dir, "insert", "--create", "users", `{"id":1,"name":"Pablo"}`)
			biff.AssertNil(err)
			_, err = execute(dir, "insert", "users", `{"id":2,"name":"Fulanez"}`)
			biff.AssertNil(err)

			data, err := os.ReadFile(filepath.Join(dir, "users.json"))
			biff.AssertNil(err)
			biff.AssertEqual(string(data), `[{"id":1,"name":"Pablo"},{"id":2,"name":"Fulanez"}]`)

			a.Alternative("Select with raw string value", func(a *biff.A) {
				out, err := execute(dir, "select", "users", "name", "Pablo")
				biff.AssertNil(err)
				biff.AssertEqual(out, "[\n  {\n    \"id\": 1,\n    \"name\": \"Pablo\"\n  }\n]\n")
			})

			a.Alternative("Select with loose numeric value", func(a *biff.A) {
				out, err := execute(dir, "select", "users", "id", `"2"`)
				biff.AssertNil(err)
				biff.AssertEqual(out, "[\n  {\n    \"id\": 2,\n    \"name\": \"Fulanez\"\n  }\n]\n")
			})

			a.Alternative("Select all", func(a *biff.A) {
				out, err := execute(dir, "select-all", "users")
				biff.AssertNil(err)
				biff.AssertEqual(out, "[\n  {\n    \"id\": 1,\n    \"name\": \"Pablo\"\n  },\n  {\n    \"id\": 2,\n    \"name\": \"Fulanez\"\n  }\n]\n")
			})

			a.Alternative("Update", func(a *biff.A) {
				_, err := execute(dir, "update", "users", "id", "1", `{"id":1,"name":"Pablito"}`)
				biff.AssertNil(err)
				data, _ := os.ReadFile(filepath.Join(dir, "users.json"))
				biff.AssertEqual(string(data), `[{"id":1,"name":"Pablito"},{"id":2,"name":"Fulanez"}]`)
			})

			a.Alternative("Update all", func(a *biff.A) {
				_, err := execute(dir, "update-all", "users", `{"id":3}`)
				biff.AssertNil(err)
				data, _ := os.ReadFile(filepath.Join(dir, "users.json"))
				biff.AssertEqual(string(data), `[{"id":3}]`)
			})

			a.Alternative("Delete", func(a *biff.A) {
				out, err := execute(dir, "delete", "users", "id", "1")
				biff.AssertNil(err)
				biff.AssertEqual(out, "1\n")
				data, _ := os.ReadFile(filepath.Join(dir, "users.json"))
				biff.AssertEqual(string(data), `[{"id":2,"name":"Fulanez"}]`)
			})

			a.Alternative("Delete all", func(a *biff.A) {
				_, err := execute(dir, "delete-all", "users")
				biff.AssertNil(err)
				data, _ := os.ReadFile(filepath.Join(dir, "users.json"))
				biff.AssertEqual(string(data), `[]`)
			})

			a.Alternative("List", func(a *biff.A) {
				out, err := execute(dir, "list")
				biff.AssertNil(err)
				biff.AssertEqual(out, "[\n  \"users\"\n]\n")
			})

			a.Alternative("Drop", func(a *biff.A) {
				_, err := execute(dir, "drop", "users")
				biff.AssertNil(err)
				_, err = os.Stat(filepath.Join(dir, "users.json"))
				biff.AssertTrue(os.IsNotExist(err))
			})
		})

		a.Alternative("Create", func(a *biff.A) {
			_, err := execute(dir, "create", "logs")
			biff.AssertNil(err)
			out, err := execute(dir, "select-all", "logs")
			biff.AssertNil(err)
			biff.AssertEqual(out, "[]\n")
		})

		a.Alternative("Custom extension", func(a *biff.A) {
			_, err := execute(dir, "--ext", ".tbl", "create", "logs")
			biff.AssertNil(err)
			_, err = os.Stat(filepath.Join(dir, "logs.tbl"))
			biff.AssertNil(err)
		})
	})
}

func TestParseValue(t *testing.T) {
	biff.AssertEqual(parseValue("Pablo"), "Pablo")
	biff.AssertEqual(parseValue(`"1"`), "1")
	biff.AssertEqual(parseValue("1"), int64(1))
	biff.AssertEqual(parseValue("1.5"), 1.5)
	biff.AssertEqual(parseValue("9007199254740993"), int64(9007199254740993))
	biff.AssertEqual(parseValue("true"), true)
	biff.AssertNil(parseValue("null"))
}
