package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/jsontable/database"
	"github.com/fulldump/jsontable/table"
)

type statusResponse struct {
	Status     string   `json:"status"`
	Version    string   `json:"version"`
	Operations []string `json:"operations"`
	OpenTables []string `json:"open_tables"`
}

func getStatus(version string) interface{} {
	return func(ctx context.Context) (*statusResponse, error) {
		db := getDatabase(ctx)
		return &statusResponse{
			Status:     db.GetStatus(),
			Version:    version,
			Operations: database.Operations(),
			OpenTables: db.OpenTables(),
		}, nil
	}
}

func listTables(ctx context.Context) ([]string, error) {
	return getDatabase(ctx).ListTables()
}

// callRequest mirrors database.Args. Value is kept raw so integers are
// decoded exactly.
type callRequest struct {
	Field  string         `json:"field"`
	Value  jsontext.Value `json:"value"`
	Row    table.Row      `json:"row"`
	Create bool           `json:"create"`
}

type callResponse struct {
	Result any `json:"result"`
}

// callOperation forwards POST /v1/tables/{tableName}/{operation} to the
// router. The body holds the operation arguments, an empty body is allowed.
func callOperation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	request := callRequest{}
	if len(bytes.TrimSpace(requestBody)) > 0 {
		err = json.Unmarshal(requestBody, &request)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
		}
	}

	args := database.Args{
		Table:  box.GetUrlParameter(ctx, "tableName"),
		Field:  request.Field,
		Row:    request.Row,
		Create: request.Create,
	}
	if len(request.Value) > 0 {
		args.Value, err = table.ParseValue(request.Value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
		}
	}

	operation := box.GetUrlParameter(ctx, "operation")
	result, err := getDatabase(ctx).Call(operation, args)
	if err != nil {
		return err
	}

	return json.MarshalWrite(w, callResponse{Result: result}, json.Deterministic(true))
}
