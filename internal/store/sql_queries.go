package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/fleetzen/fleetzen/models"
)

const (
	interventionsTable      = "interventions"
	interventionPhotosTable = "intervention_photos"
)

var interventionColumns = []string{
	"draft_id",
	"intervention_type",
	"payload",
	"client_ref",
	"site_ref",
	"vehicle_ref",
	"agent_id",
	"photo_count",
	"photo_bytes",
	"created_at",
	"received_at",
}

var postgres = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildInsertInterventionQuery(i models.Intervention, payloadJSON []byte) (string, []any, error) {
	return postgres.Insert(interventionsTable).
		Columns(interventionColumns...).
		Values(
			i.DraftID,
			string(i.Type),
			string(payloadJSON),
			i.ClientRef,
			i.SiteRef,
			i.VehicleRef,
			i.AgentID,
			i.PhotoCount,
			i.PhotoBytes,
			i.CreatedAt,
			i.ReceivedAt,
		).
		Suffix("ON CONFLICT (draft_id) DO NOTHING").
		ToSql()
}

func buildInsertInterventionPhotosQuery(draftID string, photos []models.SubmissionPhoto) (string, []any, error) {
	insert := postgres.Insert(interventionPhotosTable).
		Columns("draft_id", "photo_id", "position", "content_type", "width", "height", "size", "data")

	for i, p := range photos {
		insert = insert.Values(draftID, p.ID, i, p.ContentType, p.Width, p.Height, p.Size, p.Data)
	}

	return insert.ToSql()
}

func buildGetInterventionQuery(draftID string) (string, []any, error) {
	return postgres.Select(interventionColumns...).
		From(interventionsTable).
		Where(sq.Eq{"draft_id": draftID}).
		ToSql()
}
