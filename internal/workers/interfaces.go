// Package workers runs the agent's background jobs: the draft sync job, the
// expired-draft reaper and the connectivity monitor.
package workers

import "context"

// Worker is a long-running background job. Run blocks until ctx is
// cancelled and returns nil then; a non-nil error stops the whole group.
type Worker interface {
	Run(ctx context.Context) error
}
