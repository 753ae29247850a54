package store

import (
	"context"

	"github.com/fleetzen/fleetzen/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// InterventionRepository persists submissions received by the intake server.
type InterventionRepository interface {
	// Save stores the intervention and its photos unless an intervention with
	// the same draft id already exists, in which case nothing is written and
	// duplicate is true.
	Save(ctx context.Context, intervention models.Intervention, photos []models.SubmissionPhoto) (duplicate bool, err error)
	// Get returns the stored intervention for draftID.
	Get(ctx context.Context, draftID string) (models.Intervention, error)
}
