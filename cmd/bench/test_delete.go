package main

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fulldump/jsontable/database"
	"github.com/fulldump/jsontable/table"
)

func TestDelete(c Config) {

	createServer := c.Base == ""

	var dataDir string
	var stop func() error
	if createServer {
		dataDir, stop = CreateServer(&c)
	}

	client := NewClient()
	tableName := CreateTable(client, c.Base)

	fmt.Println("Preload rows...")
	for i := int64(0); i < c.N; i++ {
		err := Call(client, c.Base, tableName, "insert", database.Args{
			Row: JSON{
				"id":     i,
				"value":  0,
				"worker": i % int64(c.Workers),
			},
		})
		if err != nil {
			fmt.Println("ERROR: preload:", err.Error())
			return
		}
	}

	t0 := time.Now()
	worker := int64(-1)
	Parallel(c.Workers, func() {
		w := atomic.AddInt64(&worker, 1)

		// every row belonging to this worker
		err := Call(client, c.Base, tableName, "delete", database.Args{
			Field: "worker",
			Value: w,
		})
		if err != nil {
			fmt.Println("ERROR: delete:", err.Error())
		}
	})

	took := time.Since(t0)
	fmt.Println("removed:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

	if !createServer {
		return
	}

	err := stop()
	if err != nil {
		fmt.Println("ERROR: stop:", err.Error())
	}

	t1 := time.Now()
	t, err := table.Open(filepath.Join(dataDir, tableName+database.DefaultExtension), false)
	if err != nil {
		fmt.Println("ERROR: open:", err.Error())
		return
	}
	defer t.Close()
	fmt.Println("open took:", time.Since(t1), "rows left:", t.Len())
}
