package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/jsontable/database"
	"github.com/fulldump/jsontable/table"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("temporary unavailable")
	ErrMalformedJSON = errors.New("malformed JSON")
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

// describeError maps an error to its http status and a human description.
func describeError(err error) (int, string) {

	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrUnavailable), errors.Is(err, database.ErrDatabaseClosed):
		return http.StatusServiceUnavailable, "database is not accepting requests"
	case errors.Is(err, table.ErrTableNotFound):
		return http.StatusNotFound, "table does not exist"
	case errors.Is(err, database.ErrUnknownOperation):
		return http.StatusBadRequest, "unknown operation"
	case errors.Is(err, database.ErrInvalidTableName):
		return http.StatusBadRequest, "table names can not be empty nor contain path separators"
	case errors.Is(err, ErrMalformedJSON), errors.As(err, &syntaxErr):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.Is(err, table.ErrTableCorrupt):
		return http.StatusUnprocessableEntity, "table file can not be decoded"
	case errors.Is(err, table.ErrTableDropped), errors.Is(err, table.ErrTableClosed):
		return http.StatusConflict, "table is no longer available"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := describeError(err)

		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
