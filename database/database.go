package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/fulldump/jsontable/table"
)

const (
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const DefaultExtension = ".json"

type Config struct {
	Dir       string
	Extension string

	// KeepOpen keeps tables open (and locked once mutated) between calls.
	// When false every call works on a freshly loaded table that is closed,
	// and therefore saved, before Call returns.
	KeepOpen bool
}

type Database struct {
	config *Config
	logger *slog.Logger
	status string

	mutex  sync.Mutex
	tables *btree.BTreeG[*entry]
}

type entry struct {
	name  string
	table *table.Table
}

func NewDatabase(config *Config, logger *slog.Logger) (*Database, error) {

	info, err := os.Stat(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is not a directory", ErrDatabaseNotFound, config.Dir)
	}

	if config.Extension == "" {
		config.Extension = DefaultExtension
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Database{
		config: config,
		logger: logger.With("dir", config.Dir),
		status: StatusOperating,
		tables: btree.NewG(8, func(a, b *entry) bool {
			return a.name < b.name
		}),
	}, nil
}

func (db *Database) GetStatus() string {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.status
}

// Filename returns the path of the file backing the table name.
func (db *Database) Filename(name string) string {
	return filepath.Join(db.config.Dir, name+db.config.Extension)
}

// Call forwards the operation op to the table args.Table.
func (db *Database) Call(op string, args Args) (any, error) {

	o, exists := operations[op]
	if !exists {
		return nil, fmt.Errorf("%w '%s', must be [%s]", ErrUnknownOperation, op, strings.Join(Operations(), "|"))
	}

	err := validateName(args.Table)
	if err != nil {
		return nil, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if db.status == StatusClosing {
		return nil, ErrDatabaseClosed
	}

	t0 := time.Now()
	t, err := db.getTable(args.Table, o.create(args))
	if err != nil {
		return nil, err
	}

	result, err := o.run(t, args)

	if o.evict || !db.config.KeepOpen {
		closeErr := db.closeTable(args.Table)
		if err == nil {
			err = closeErr
		}
	}

	if err != nil {
		db.logger.Warn("operation failed", "table", args.Table, "op", op, "error", err)
		return nil, err
	}

	db.logger.Debug("operation", "table", args.Table, "op", op, "elapsed", time.Since(t0))

	return result, nil
}

func (db *Database) getTable(name string, create bool) (*table.Table, error) {

	e, exists := db.tables.Get(&entry{name: name})
	if exists {
		return e.table, nil
	}

	t, err := table.Open(db.Filename(name), create)
	if err != nil {
		return nil, err
	}

	db.tables.ReplaceOrInsert(&entry{name: name, table: t})
	db.logger.Debug("table opened", "table", name, "rows", t.Len())

	return t, nil
}

func (db *Database) closeTable(name string) error {

	e, exists := db.tables.Delete(&entry{name: name})
	if !exists {
		return nil
	}

	err := e.table.Close()
	if err != nil {
		db.logger.Error("close table", "table", name, "error", err)
		return err
	}

	return nil
}

// OpenTables lists the tables currently held in memory, sorted by name.
func (db *Database) OpenTables() []string {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	names := []string{}
	db.tables.Ascend(func(e *entry) bool {
		names = append(names, e.name)
		return true
	})
	return names
}

// ListTables lists the tables stored in the database directory.
func (db *Database) ListTables() ([]string, error) {

	entries, err := os.ReadDir(db.config.Dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), db.config.Extension) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), db.config.Extension)
		if validateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Close closes every open table, saving pending changes. Further calls fail
// with ErrDatabaseClosed.
func (db *Database) Close() error {

	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.status = StatusClosing

	var errs []error
	for {
		e, ok := db.tables.DeleteMin()
		if !ok {
			break
		}
		db.logger.Info("closing table", "table", e.name)
		err := e.table.Close()
		if err != nil {
			db.logger.Error("close table", "table", e.name, "error", err)
			errs = append(errs, fmt.Errorf("close '%s': %w", e.name, err))
		}
	}

	return errors.Join(errs...)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: '%s'", ErrInvalidTableName, name)
	}
	return nil
}
