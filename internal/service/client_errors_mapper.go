// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into a service
// error. The text of the result becomes the draft's failure reason.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case adapter.IsRetryable(err):
		return fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrForbidden):
		return fmt.Errorf("%w: session rejected: %w", ErrSubmissionRejected, err)
	}

	return fmt.Errorf("%w: %w", ErrSubmissionRejected, err)
}
