package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fulldump/jsontable/database"
)

func TestInsert(c Config) {

	if c.Base == "" {
		_, stop := CreateServer(&c)
		defer stop()
	}

	client := NewClient()
	tableName := CreateTable(client, c.Base)

	items := c.N
	errs := int64(0)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Second):
				fmt.Println("items:", atomic.LoadInt64(&items))
			}
		}
	}()

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				return
			}
			err := Call(client, c.Base, tableName, "insert", database.Args{
				Row: JSON{"id": n, "n": fmt.Sprint(n)},
			})
			if err != nil {
				atomic.AddInt64(&errs, 1)
				fmt.Println("ERROR: insert:", err.Error())
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("sent:", c.N, "errors:", errs)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

}
