// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks intervention drafts and submissions against the
// per-type payload schemas.
//
// Validation is scoped by field names so each boundary asks only for what it
// needs. The CLI checks the shape of a partial payload and the sync service
// requires a complete one before a draft leaves the device. The draft store
// itself never validates payloads.
package validators

import "context"

// Validator validates obj, optionally restricted to the named fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
