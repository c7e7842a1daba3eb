// Package handler contains the HTTP handlers: the GraphQL endpoint and the
// health check.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/labstack/echo/v4"

	"github.com/moviegraph/moviegraph/internal/auth"
	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/repository"
)

// GraphQLHandler executes GraphQL operations against the schema and shapes
// errors for the client.
type GraphQLHandler struct {
	Schema graphql.Schema
	Env    string // "prod" masks internal error messages
}

func NewGraphQLHandler(schema graphql.Schema, env string) *GraphQLHandler {
	return &GraphQLHandler{Schema: schema, Env: env}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve handles POST bodies of the form {query, variables, operationName}
// and GET requests with ?query= and optional ?variables= (URL-encoded
// JSON).  The bearer token, when present, is threaded into the execution
// context so resolvers can authenticate the caller.
func (h *GraphQLHandler) Serve(c echo.Context) error {
	var req graphqlRequest
	switch c.Request().Method {
	case http.MethodPost:
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
	case http.MethodGet:
		req.Query = c.QueryParam("query")
		req.OperationName = c.QueryParam("operationName")
		if raw := c.QueryParam("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid variables"})
			}
		}
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query required"})
	}

	ctx := c.Request().Context()
	if token := bearerToken(c); token != "" {
		ctx = graph.WithToken(ctx, token)
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})
	h.formatErrors(result)

	return c.JSON(http.StatusOK, result)
}

// bearerToken extracts the token from an "Authorization: Bearer x" header,
// returning "" when the header is absent or differently shaped.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// formatErrors attaches {code, status} extensions to every error in the
// result based on the sentinel the resolver raised.  Outside development,
// unrecognized errors keep only a generic message so internals never leak.
func (h *GraphQLHandler) formatErrors(result *graphql.Result) {
	for i := range result.Errors {
		cause := rootCause(result.Errors[i])
		var status int
		var code string
		switch cause.(type) {
		case gqlerrors.FormattedError, *gqlerrors.Error:
			// No resolver underneath: the executor rejected the document
			// itself (syntax error, unknown field).  That is the client's
			// mistake and the message stays useful.
			status, code = http.StatusBadRequest, "GRAPHQL_VALIDATION_FAILED"
		default:
			status, code = statusOf(cause)
		}
		if result.Errors[i].Extensions == nil {
			result.Errors[i].Extensions = map[string]interface{}{}
		}
		result.Errors[i].Extensions["status"] = status
		result.Errors[i].Extensions["code"] = code
		if status == http.StatusInternalServerError && h.Env == "prod" {
			result.Errors[i].Message = "internal server error"
		}
	}
}

// rootCause unwraps the layers graphql-go adds around resolver errors.
func rootCause(err error) error {
	for err != nil {
		switch e := err.(type) {
		case gqlerrors.FormattedError:
			if e.OriginalError() == nil {
				return e
			}
			err = e.OriginalError()
		case *gqlerrors.Error:
			if e.OriginalError == nil {
				return e
			}
			err = e.OriginalError
		default:
			return err
		}
	}
	return err
}

// statusOf maps sentinel errors to an HTTP-equivalent status and a stable
// machine-readable code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, repository.ErrOperationFailed):
		return http.StatusConflict, "OPERATION_FAILED"
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}
