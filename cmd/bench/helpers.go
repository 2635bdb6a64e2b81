package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/jsontable/bootstrap"
	"github.com/fulldump/jsontable/configuration"
	"github.com/fulldump/jsontable/database"
	"github.com/fulldump/jsontable/logging"
)

type JSON = map[string]any

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "jsontable_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
		Timeout: 10 * time.Second,
	}
}

// Call forwards one operation to the server and discards the result.
func Call(client *http.Client, base, table, operation string, args database.Args) error {

	payload, err := json.Marshal(args)
	if err != nil {
		return err
	}

	resp, err := client.Post(base+"/v1/tables/"+table+"/"+operation, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, body)
	}

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func CreateTable(client *http.Client, base string) string {

	name := "table-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	err := Call(client, base, name, "createTable", database.Args{})
	if err != nil {
		panic(err)
	}

	return name
}

// CreateServer starts a local server on a temporary directory and points
// c.Base to it.
func CreateServer(c *Config) (dir string, stop func() error) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	conf := configuration.Default()
	conf.Dir = dir
	conf.KeepOpen = c.KeepOpen
	c.Base = "http://" + conf.HttpAddr

	start, stop, err := bootstrap.Bootstrap(conf, logging.New(slog.LevelWarn))
	if err != nil {
		panic(err)
	}
	go start()

	return dir, stop
}
