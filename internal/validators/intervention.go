// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fleetzen/fleetzen/models"
)

// Field name constants used to scope a Validate call.
const (
	// FieldID targets the draft identifier.
	FieldID = "id"

	// FieldType targets the intervention type.
	FieldType = "type"

	// FieldAgentID targets the agent stamped on a submission.
	FieldAgentID = "agent_id"

	// FieldPayloadShape checks the keys and values that are present against
	// the schema of the intervention type. Missing keys are allowed, so
	// partially filled drafts pass.
	FieldPayloadShape = "payload_shape"

	// FieldPayloadComplete additionally requires every mandatory key. It is
	// applied before a draft leaves the device.
	FieldPayloadComplete = "payload_complete"

	// FieldPhotos targets the attached photo list.
	FieldPhotos = "photos"
)

var (
	washTypes = []string{models.WashExterior, models.WashInterior, models.WashComplete}
	fuelTypes = []string{models.FuelDiesel, models.FuelGasoline, models.FuelAdBlue}
)

// InterventionValidator validates drafts and submissions against the
// per-type payload schemas.
//
// Supported types: models.Draft, models.SubmissionRequest and their
// pointers.
type InterventionValidator struct {
	maxPhotos int
}

// NewInterventionValidator returns a Validator that also caps photo lists at
// maxPhotos when FieldPhotos is requested. A non-positive maxPhotos disables
// the cap.
func NewInterventionValidator(maxPhotos int) Validator {
	return &InterventionValidator{maxPhotos: maxPhotos}
}

// Validate dispatches on the dynamic type of obj. When no fields are given,
// the type and payload shape are checked.
func (v *InterventionValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Draft:
		return v.validate(ctx, value.ID, value.Type, value.Payload, value.AgentID, len(value.PhotoRefs), nil, fields...)
	case *models.Draft:
		return v.Validate(ctx, *value, fields...)

	case models.SubmissionRequest:
		return v.validate(ctx, value.DraftID, value.Type, value.Payload, value.AgentID, len(value.Photos), value.Photos, fields...)
	case *models.SubmissionRequest:
		return v.Validate(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *InterventionValidator) validate(_ context.Context, id string, t models.InterventionType, payload models.Payload,
	agentID string, photoCount int, photos []models.SubmissionPhoto, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldType, FieldPayloadShape}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(id) == "" {
				return ErrInvalidDraftID
			}
		case FieldType:
			if !t.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidInterventionType, t)
			}
		case FieldAgentID:
			if strings.TrimSpace(agentID) == "" {
				return ErrInvalidAgentID
			}
		case FieldPayloadShape:
			if err := validatePayload(t, payload, false); err != nil {
				return err
			}
		case FieldPayloadComplete:
			if err := validatePayload(t, payload, true); err != nil {
				return err
			}
		case FieldPhotos:
			if v.maxPhotos > 0 && photoCount > v.maxPhotos {
				return fmt.Errorf("%w: %d > %d", ErrTooManyPhotos, photoCount, v.maxPhotos)
			}
			for _, p := range photos {
				if p.ID == "" || len(p.Data) == 0 || int64(len(p.Data)) != p.Size {
					return fmt.Errorf("%w: %q", ErrInvalidPhoto, p.ID)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validatePayload(t models.InterventionType, payload models.Payload, complete bool) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidInterventionType, t)
	}

	decoded, err := models.DecodePayload(t, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	switch p := decoded.(type) {
	case *models.WashingPayload:
		return validateWashing(p, complete)
	case *models.FuelDeliveryPayload:
		return validateFuelDelivery(p, complete)
	case *models.TankFillPayload:
		return validateTankFill(p, complete)
	}

	return nil
}

func validateWashing(p *models.WashingPayload, complete bool) error {
	if p.WashType == nil {
		if complete {
			return fmt.Errorf("%w: washType", ErrMissingPayloadField)
		}
		return nil
	}
	if !slices.Contains(washTypes, *p.WashType) {
		return fmt.Errorf("%w: washType must be one of %s", ErrInvalidPayload, strings.Join(washTypes, ", "))
	}
	return nil
}

func validateFuelDelivery(p *models.FuelDeliveryPayload, complete bool) error {
	if err := requirePresent(complete, requiredField{"liters", p.Liters != nil}, requiredField{"fuelType", p.FuelType != nil}); err != nil {
		return err
	}
	if p.Liters != nil && *p.Liters <= 0 {
		return fmt.Errorf("%w: liters must be greater than 0", ErrInvalidPayload)
	}
	if p.FuelType != nil && !slices.Contains(fuelTypes, *p.FuelType) {
		return fmt.Errorf("%w: fuelType must be one of %s", ErrInvalidPayload, strings.Join(fuelTypes, ", "))
	}
	if p.OdometerKm != nil && *p.OdometerKm < 0 {
		return fmt.Errorf("%w: odometerKm must not be negative", ErrInvalidPayload)
	}
	return nil
}

func validateTankFill(p *models.TankFillPayload, complete bool) error {
	if err := requirePresent(complete, requiredField{"tankId", p.TankID != nil}, requiredField{"liters", p.Liters != nil}); err != nil {
		return err
	}
	if p.TankID != nil && strings.TrimSpace(*p.TankID) == "" {
		return fmt.Errorf("%w: tankId must not be empty", ErrInvalidPayload)
	}
	if p.Liters != nil && *p.Liters <= 0 {
		return fmt.Errorf("%w: liters must be greater than 0", ErrInvalidPayload)
	}
	if !inPercentRange(p.LevelBeforePct) {
		return fmt.Errorf("%w: levelBeforePct must be within 0..100", ErrInvalidPayload)
	}
	if !inPercentRange(p.LevelAfterPct) {
		return fmt.Errorf("%w: levelAfterPct must be within 0..100", ErrInvalidPayload)
	}
	return nil
}

func inPercentRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100)
}

type requiredField struct {
	name    string
	present bool
}

// requirePresent reports the first missing field when complete is set.
func requirePresent(complete bool, fields ...requiredField) error {
	if !complete {
		return nil
	}
	for _, f := range fields {
		if !f.present {
			return fmt.Errorf("%w: %s", ErrMissingPayloadField, f.name)
		}
	}
	return nil
}
