package database

import (
	"github.com/fulldump/jsontable/table"
	"github.com/fulldump/jsontable/utils"
)

// Args bundles the arguments of any forwarded operation. Each operation only
// reads the fields it needs.
type Args struct {
	Table  string    `json:"table"`
	Field  string    `json:"field"`
	Value  any       `json:"value"`
	Row    table.Row `json:"row"`
	Create bool      `json:"create"`
}

type operation struct {
	// create tells whether the table file is created when missing
	create func(args Args) bool
	// evict removes the table from the cache once the operation is done
	evict bool
	run   func(t *table.Table, args Args) (any, error)
}

func never(Args) bool  { return false }
func always(Args) bool { return true }

var operations = map[string]operation{
	"selectAll": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return t.SelectAll(), nil
		},
	},
	"select": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return t.Select(args.Field, args.Value), nil
		},
	},
	"insert": {
		create: func(args Args) bool {
			return args.Create
		},
		run: func(t *table.Table, args Args) (any, error) {
			return nil, t.Insert(args.Row)
		},
	},
	"update": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return t.Update(args.Field, args.Value, args.Row)
		},
	},
	"updateAll": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return nil, t.UpdateAll(args.Row)
		},
	},
	"deleteAll": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return nil, t.DeleteAll()
		},
	},
	"delete": {
		create: never,
		run: func(t *table.Table, args Args) (any, error) {
			return t.Delete(args.Field, args.Value)
		},
	},
	"createTable": {
		create: always,
		run: func(t *table.Table, args Args) (any, error) {
			return nil, nil
		},
	},
	"dropTable": {
		create: never,
		evict:  true,
		run: func(t *table.Table, args Args) (any, error) {
			return nil, t.DropTable()
		},
	},
	"closeTable": {
		create: never,
		evict:  true,
		run: func(t *table.Table, args Args) (any, error) {
			return nil, nil // the table is closed on eviction
		},
	},
}

// Operations lists the names accepted by Call.
func Operations() []string {
	return utils.GetKeys(operations)
}

func init() {
	for name, o := range operations {
		if o.create == nil || o.run == nil {
			panic("database: incomplete operation '" + name + "'")
		}
	}
}
