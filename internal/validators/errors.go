package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidDraftID          = errors.New("invalid draft id")
	ErrInvalidInterventionType = errors.New("invalid intervention type")
	ErrInvalidAgentID          = errors.New("invalid agent id")
	ErrInvalidPayload          = errors.New("invalid payload")
	ErrMissingPayloadField     = errors.New("required payload field is missing")
	ErrTooManyPhotos           = errors.New("too many photos")
	ErrInvalidPhoto            = errors.New("invalid photo")
)
