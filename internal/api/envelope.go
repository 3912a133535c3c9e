package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/http/response"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

// EnvelopeVersion is the "v" field of every response body.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and plain errors.
type APIEnvelope = response.Envelope //nolint:revive // API prefix is intentional for clarity

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope = response.ErrorEnvelope //nolint:revive // API prefix is intentional for clarity

// EnvelopeTransformer wraps every huma response body in the envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, APIErrorEnvelope:
		return v, nil
	case *APIError:
		return response.NewErrorEnvelope(body.Code, body.Message, body.Details), nil
	case *domainerrors.Error:
		return response.NewErrorEnvelope(string(body.Code), body.Message, body.Details), nil
	case *store.Error:
		return response.NewErrorEnvelope(string(response.StoreCode(body)), body.Message, nil), nil
	case error:
		return APIEnvelope{Version: EnvelopeVersion, Error: body.Error()}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: isSuccess(status),
		Data:    v,
	}, nil
}

func isSuccess(status string) bool {
	code, err := strconv.Atoi(status)
	return err == nil && code < 400
}
