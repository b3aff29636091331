package http

import (
	"fmt"
	"net/http"
	"sync"

	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

var (
	registerDocOnce sync.Once
	registerDocErr  error
)

// registerSwaggerDoc publishes the embedded OpenAPI document in the swag registry read
// by the swagger UI handler.
func registerSwaggerDoc() error {
	registerDocOnce.Do(func() {
		doc, err := openAPIDocument()
		if err != nil {
			registerDocErr = err
			return
		}
		swag.Register(swag.Name, &swag.Spec{
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(doc),
		})
	})
	return registerDocErr
}

func openAPIDocument() ([]byte, error) {
	spec, err := servers.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	doc, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	return doc, nil
}

func openAPIHandler(doc []byte) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, doc)
	}
}
