package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownInterventionType is returned by DecodePayload for a type outside
// [InterventionTypes].
var ErrUnknownInterventionType = errors.New("unknown intervention type")

// Wash types accepted in a washing payload.
const (
	WashExterior = "exterior"
	WashInterior = "interior"
	WashComplete = "complete"
)

// Fuel types accepted in a fuel-delivery payload.
const (
	FuelDiesel   = "diesel"
	FuelGasoline = "gasoline"
	FuelAdBlue   = "adblue"
)

// WashingPayload is the typed form of a washing draft. Fields are pointers
// because a draft may be saved before every field is filled in.
type WashingPayload struct {
	WashType *string `json:"washType,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// FuelDeliveryPayload is the typed form of a fuel-delivery draft.
type FuelDeliveryPayload struct {
	Liters     *float64 `json:"liters,omitempty"`
	FuelType   *string  `json:"fuelType,omitempty"`
	OdometerKm *float64 `json:"odometerKm,omitempty"`
}

// TankFillPayload is the typed form of a tank-fill draft.
type TankFillPayload struct {
	TankID         *string  `json:"tankId,omitempty"`
	Liters         *float64 `json:"liters,omitempty"`
	LevelBeforePct *float64 `json:"levelBeforePct,omitempty"`
	LevelAfterPct  *float64 `json:"levelAfterPct,omitempty"`
}

// DecodePayload converts p into the typed payload of t: *WashingPayload,
// *FuelDeliveryPayload or *TankFillPayload. Unknown keys and values of the
// wrong JSON type are rejected.
func DecodePayload(t InterventionType, p Payload) (any, error) {
	var target any
	switch t {
	case Washing:
		target = &WashingPayload{}
	case FuelDelivery:
		target = &FuelDeliveryPayload{}
	case TankFill:
		target = &TankFillPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInterventionType, t)
	}

	if p == nil {
		return target, nil
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err = dec.Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}

	return target, nil
}
