// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Agent is the identity of the field agent owning the current session.
// It is only used to stamp drafts for display; the draft store never
// enforces it.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
