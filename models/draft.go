// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// Payload maps form-field names to values. Its shape depends on the draft's
// [InterventionType]; the draft store keeps it opaque.
type Payload map[string]any

// Merge returns a copy of p with every key of patch written over it.
// Keys absent from patch are preserved (shallow merge).
func (p Payload) Merge(patch Payload) Payload {
	merged := make(Payload, len(p)+len(patch))
	maps.Copy(merged, p)
	maps.Copy(merged, patch)
	return merged
}

// Clone returns a shallow copy of p. A nil payload clones to an empty one.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	maps.Copy(out, p)
	return out
}

// References groups the optional foreign references of a draft. Each value
// is an opaque identifier owned by the backend and never validated locally.
type References struct {
	ClientRef  *string `json:"clientRef,omitempty"`
	SiteRef    *string `json:"siteRef,omitempty"`
	VehicleRef *string `json:"vehicleRef,omitempty"`
}

// Draft is a provisional intervention record persisted on the device until
// the backend confirms it.
type Draft struct {
	// ID is the client-generated identifier. It is assigned once and never reused.
	ID string `json:"id"`

	// Type selects the payload schema.
	Type InterventionType `json:"interventionType"`

	// Payload holds the form values as entered so far.
	Payload Payload `json:"payload"`

	References

	// AgentID and AgentName are stamped from the session for display only.
	AgentID   string `json:"agentId,omitempty"`
	AgentName string `json:"agentName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// ExpiresAt is CreatedAt plus the retention window. Edits never extend it.
	ExpiresAt time.Time `json:"expiresAt"`

	SyncState         SyncState `json:"syncState"`
	SyncFailureReason *string   `json:"syncFailureReason,omitempty"`

	// PhotoRefs lists attached photos in insertion order.
	PhotoRefs []PhotoRef `json:"photoRefs"`

	// Version is bumped by the storage layer on every write and is used as a
	// compare-and-swap stamp.
	Version int64 `json:"version"`
}

// Expired reports whether the draft has lapsed at instant now.
func (d Draft) Expired(now time.Time) bool {
	return now.After(d.ExpiresAt)
}

// Clone returns a deep enough copy of d that mutating the payload, references
// or photo list of the copy leaves d intact.
func (d Draft) Clone() Draft {
	out := d
	out.Payload = d.Payload.Clone()
	out.PhotoRefs = append([]PhotoRef(nil), d.PhotoRefs...)
	if d.SyncFailureReason != nil {
		reason := *d.SyncFailureReason
		out.SyncFailureReason = &reason
	}
	return out
}
