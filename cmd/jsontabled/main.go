package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/jsontable/bootstrap"
	"github.com/fulldump/jsontable/configuration"
	"github.com/fulldump/jsontable/logging"
)

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(2)
	}
	logger := logging.New(level)

	start, stop, err := bootstrap.Bootstrap(c, logger)
	if err != nil {
		logger.Error("bootstrap", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	go func() {
		<-ctx.Done()
		logger.Info("signal received, closing tables")
		err := stop()
		if err != nil {
			logger.Error("stop", "error", err)
		}
	}()

	err = start()
	if err != nil {
		logger.Error("serve", "error", err)
	}

	// Wait for tables to be saved.
	err = stop()
	if err != nil {
		os.Exit(1)
	}
}
