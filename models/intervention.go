// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// InterventionType identifies the kind of field work a draft records.
// The value determines which payload schema applies at submission time.
type InterventionType string

const (
	// Washing covers exterior/interior vehicle washing.
	Washing InterventionType = "washing"

	// FuelDelivery covers fuel delivered directly into a vehicle.
	FuelDelivery InterventionType = "fuel-delivery"

	// TankFill covers refilling an on-site storage tank.
	TankFill InterventionType = "tank-fill"
)

// InterventionTypes is the closed set of accepted intervention types.
var InterventionTypes = []InterventionType{Washing, FuelDelivery, TankFill}

// Valid reports whether t belongs to [InterventionTypes].
func (t InterventionType) Valid() bool {
	for _, known := range InterventionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SyncState is the position of a draft in the submission state machine.
type SyncState string

const (
	// LocalOnly drafts exist only on the device and may be edited.
	LocalOnly SyncState = "local-only"

	// SyncPending drafts are handed off for submission and locked against edits.
	SyncPending SyncState = "sync-pending"

	// Synced drafts were confirmed by the backend. They are removed right away,
	// so this state is never observed on a stored record.
	Synced SyncState = "synced"

	// SyncFailed drafts were rejected or could not be delivered. They stay
	// editable and can be retried manually.
	SyncFailed SyncState = "sync-failed"
)

// Editable reports whether drafts in state s accept payload or photo changes.
func (s SyncState) Editable() bool {
	return s == LocalOnly || s == SyncFailed
}
