// Package handlers is the daemon's local HTTP surface over the client
// stores and services. Callers authenticate with the same backend bearer
// token the gateway forwards.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trovemarket/storefront-client/internal/api/response"
	appErrors "github.com/trovemarket/storefront-client/internal/errors"
)

func decodeJSONBody(r *http.Request, dest any) error {

	body, err := io.ReadAll(r.Body)

	if err != nil {
		slog.Error("Failed to read request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)

		return fmt.Errorf("failed to read request body: %w", err)
	}

	defer r.Body.Close()

	if len(body) == 0 {
		slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))

		return errors.New("request body cannot be empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		slog.Error("Failed to parse request JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

func parseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := decodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.WriteJson(w, http.StatusBadRequest, response.APIResponse{
			Success: false,
			Error:   &response.ErrorResponse{Code: appErrors.ErrCodeBadRequest, Message: err.Error()},
		})

		return false
	}

	if err := validate.Struct(dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, err)
		}

		return false
	}

	return true
}

// bearerToken pulls the backend token the caller wants forwarded. Empty is
// allowed here; services preflight expiry themselves.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	return strings.TrimPrefix(header, "Bearer ")
}
