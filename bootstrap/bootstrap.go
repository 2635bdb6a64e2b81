package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fulldump/jsontable/api"
	"github.com/fulldump/jsontable/configuration"
	"github.com/fulldump/jsontable/database"
)

var VERSION = "dev"

// Bootstrap wires the router and the HTTP API and starts listening. start
// serves until stop is called; stop shuts the server down and closes the
// database, saving every pending table.
func Bootstrap(c *configuration.Configuration, logger *slog.Logger) (start, stop func() error, err error) {

	err = os.MkdirAll(c.Dir, 0755)
	if err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := database.NewDatabase(&database.Config{
		Dir:       c.Dir,
		Extension: c.Extension,
		KeepOpen:  c.KeepOpen,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	b := api.Build(db, logger, api.Options{
		Version:           VERSION,
		ApiKey:            c.ApiKey,
		ApiSecret:         c.ApiSecret,
		EnableCompression: c.EnableCompression,
	})

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: b,
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen: %w", err)
	}
	logger.Info("listening", "addr", ln.Addr().String(), "dir", c.Dir)

	var stopErr error
	stopOnce := &sync.Once{}
	stop = func() error {
		stopOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			stopErr = errors.Join(s.Shutdown(ctx), db.Close())
		})
		return stopErr
	}

	start = func() error {
		err := s.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	return start, stop, nil
}
