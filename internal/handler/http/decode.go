package http

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst without validating it.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return nil
}
