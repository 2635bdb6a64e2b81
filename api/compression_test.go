package api

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/fulldump/jsontable/database"
)

func gunzip(b []byte) string {
	r, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		panic(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func TestCompression(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		db, err := database.NewDatabase(&database.Config{
			Dir: t.TempDir(),
		}, discard)
		biff.AssertNil(err)

		b := Build(db, discard, Options{Version: "test", EnableCompression: true})
		api := apitest.NewWithHandler(b)

		a.Alternative("Client accepts gzip", func(a *biff.A) {
			resp := api.Request("GET", "/v1/tables").
				WithHeader("Accept-Encoding", "gzip").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")
			biff.AssertEqual(resp.Header.Get("Vary"), "Accept-Encoding")
			biff.AssertEqual(strings.TrimSpace(gunzip(resp.BodyBytes())), "[]")
		})

		a.Alternative("Errors are compressed too", func(a *biff.A) {
			resp := api.Request("POST", "/v1/tables/users/selectAll").
				WithHeader("Accept-Encoding", "gzip").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")
			biff.AssertTrue(strings.Contains(gunzip(resp.BodyBytes()), "table does not exist"))
		})

		a.Alternative("Client does not accept gzip", func(a *biff.A) {
			resp := api.Request("POST", "/v1/tables/users/createTable").
				WithHeader("Accept-Encoding", "identity").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
			biff.AssertEqual(resp.BodyString(), `{"result":null}`)
		})
	})
}
