package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test     string `usage:"name of the test: ALL | INSERT | DELETE"`
	Base     string `usage:"base URL, empty starts a local server"`
	N        int64  `usage:"number of rows"`
	Workers  int    `usage:"number of workers"`
	KeepOpen bool   `usage:"keep tables open on the local server"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "insert",
		Base:    "",
		N:       10_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestInsert(c)
		TestDelete(c)
	case "INSERT":
		TestInsert(c)
	case "DELETE":
		TestDelete(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
