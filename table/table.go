// Package table implements a flat-file table: one file holding a JSON array
// of rows, loaded once into memory, mutated in memory under an exclusive
// advisory lock and written back when the table is closed.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-json-experiment/json"
)

// Row is one record of a table. Rows have no schema.
type Row map[string]any

type Table struct {
	path string
	rows []Row

	file    *os.File // write handle holding the lock, nil until first mutation
	locked  bool
	dropped bool
	closed  bool
}

// Open loads the table stored at path. When create is true a missing file is
// created empty, otherwise a missing file fails with ErrTableNotFound.
func Open(path string, create bool) (*Table, error) {

	if create {
		err := CreateTable(path)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read table '%s': %w", path, err)
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("load table '%s': %w", path, err)
	}

	return &Table{
		path: path,
		rows: rows,
	}, nil
}

// CreateTable creates an empty table file at path if it does not exist yet.
func CreateTable(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreateFailed, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreateFailed, err)
	}
	return nil
}

func (t *Table) Path() string {
	return t.path
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Locked reports whether the table holds its file lock, that is, whether it
// has pending changes that Close will write.
func (t *Table) Locked() bool {
	return t.locked
}

// lock opens the backing file for writing and takes the exclusive lock. The
// file is truncated on open, its content already lives in t.rows.
func (t *Table) lock() error {

	if t.dropped {
		return ErrTableDropped
	}
	if t.closed {
		return ErrTableClosed
	}
	if t.locked {
		return nil
	}

	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("%w: open '%s': %w", ErrLockFailed, t.path, err)
	}

	err = flock(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: '%s': %w", ErrLockFailed, t.path, err)
	}

	t.file = f
	t.locked = true

	return nil
}

func (t *Table) release() error {
	if t.file == nil {
		return nil
	}
	f := t.file
	t.file = nil
	t.locked = false
	return errors.Join(funlock(f), f.Close())
}

// Close writes the rows back to disk if the table was ever mutated and
// releases the lock. Mutations are lost if Close is never called.
func (t *Table) Close() error {

	if t.closed {
		return nil
	}
	t.closed = true

	if !t.locked || t.dropped {
		return nil
	}

	err := t.save()
	releaseErr := t.release()
	if err != nil {
		return fmt.Errorf("%w to '%s': %w", ErrSaveFailed, t.path, errors.Join(err, releaseErr))
	}
	if releaseErr != nil {
		return fmt.Errorf("%w to '%s': %w", ErrSaveFailed, t.path, releaseErr)
	}

	return nil
}

func (t *Table) save() error {

	data, err := encodeRows(t.rows)
	if err != nil {
		return err
	}

	// a previous lock holder may have written after our open truncated it
	err = t.file.Truncate(0)
	if err != nil {
		return err
	}
	_, err = t.file.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}

	n, err := t.file.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}

	return t.file.Sync()
}

// DropTable removes the backing file. Pending changes are discarded and the
// table can not be mutated afterwards.
func (t *Table) DropTable() error {

	if t.dropped {
		return nil
	}
	if t.closed {
		return ErrTableClosed
	}

	_, err := os.Stat(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		t.dropped = true
		t.rows = []Row{}
		return t.release()
	}

	err = t.lock()
	if err != nil {
		return err
	}

	t.dropped = true
	t.rows = []Row{}
	_ = t.release() // the file is removed right below

	err = os.Remove(t.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDropFailed, err)
	}

	return nil
}

func decodeRows(data []byte) ([]Row, error) {

	rows := []Row{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}

	err := json.Unmarshal(data, &rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableCorrupt, err)
	}
	if rows == nil {
		rows = []Row{}
	}

	return rows, nil
}

func encodeRows(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(rows, json.Deterministic(true))
}
