package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulldump/jsontable/database"
)

// Database is the part of the router the API depends on.
type Database interface {
	Call(op string, args database.Args) (any, error)
	ListTables() ([]string, error)
	OpenTables() []string
	GetStatus() string
}

type Options struct {
	Version           string
	ApiKey            string
	ApiSecret         string
	EnableCompression bool
}

func Build(db Database, logger *slog.Logger, options Options) *box.B {

	b := box.NewBox()
	m := newMetrics()

	b.WithInterceptors(
		AccessLog(logger),
		RecoverFromPanic(logger),
	)
	if options.EnableCompression {
		b.WithInterceptors(Compression)
	}
	b.WithInterceptors(PrettyErrorInterceptor)

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(options.ApiKey, options.ApiSecret),
		InterceptorUnavailable(db),
		injectDatabase(db),
	)

	v1.Resource("/status").
		WithActions(
			box.Get(getStatus(options.Version)),
		)

	v1.Resource("/tables").
		WithActions(
			box.Get(listTables),
		)

	v1.Resource("/tables/{tableName}/{operation}").
		WithActions(
			box.Post(callOperation).WithInterceptors(m.Interceptor),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/metrics").
		WithActions(
			box.Get(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP).WithName("metrics"),
		)

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "jsontable"
	spec.Info.Description = "Flat-file JSON tables over HTTP."
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}

type contextKey string

const contextDatabaseKey contextKey = "database"

func injectDatabase(db Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(context.WithValue(ctx, contextDatabaseKey, db))
		}
	}
}

func getDatabase(ctx context.Context) Database {
	return ctx.Value(contextDatabaseKey).(Database)
}
