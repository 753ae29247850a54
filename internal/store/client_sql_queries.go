// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/fleetzen/fleetzen/models"
)

// sqliteTimeLayout has a fixed-width fraction so stored timestamps compare
// correctly as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

const draftsTable = "drafts"

var draftColumns = []string{
	"id",
	"intervention_type",
	"payload",
	"refs",
	"agent_id",
	"agent_name",
	"created_at",
	"updated_at",
	"expires_at",
	"sync_state",
	"sync_failure_reason",
	"photo_refs",
	"version",
}

var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, s)
}

// draftRow is the column-level representation of a draft.
type draftRow struct {
	ID                string
	Type              string
	Payload           string
	Refs              string
	AgentID           string
	AgentName         string
	CreatedAt         string
	UpdatedAt         string
	ExpiresAt         string
	SyncState         string
	SyncFailureReason *string
	PhotoRefs         string
	Version           int64
}

func newDraftRow(d models.Draft) (draftRow, error) {
	payload := d.Payload
	if payload == nil {
		payload = models.Payload{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return draftRow{}, fmt.Errorf("encode payload: %w", err)
	}

	refsJSON, err := json.Marshal(d.References)
	if err != nil {
		return draftRow{}, fmt.Errorf("encode references: %w", err)
	}

	photos := d.PhotoRefs
	if photos == nil {
		photos = []models.PhotoRef{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return draftRow{}, fmt.Errorf("encode photo refs: %w", err)
	}

	return draftRow{
		ID:                d.ID,
		Type:              string(d.Type),
		Payload:           string(payloadJSON),
		Refs:              string(refsJSON),
		AgentID:           d.AgentID,
		AgentName:         d.AgentName,
		CreatedAt:         formatTime(d.CreatedAt),
		UpdatedAt:         formatTime(d.UpdatedAt),
		ExpiresAt:         formatTime(d.ExpiresAt),
		SyncState:         string(d.SyncState),
		SyncFailureReason: d.SyncFailureReason,
		PhotoRefs:         string(photosJSON),
		Version:           d.Version,
	}, nil
}

func (r draftRow) values() []any {
	return []any{
		r.ID, r.Type, r.Payload, r.Refs, r.AgentID, r.AgentName,
		r.CreatedAt, r.UpdatedAt, r.ExpiresAt,
		r.SyncState, r.SyncFailureReason, r.PhotoRefs, r.Version,
	}
}

func (r *draftRow) scanTargets() []any {
	return []any{
		&r.ID, &r.Type, &r.Payload, &r.Refs, &r.AgentID, &r.AgentName,
		&r.CreatedAt, &r.UpdatedAt, &r.ExpiresAt,
		&r.SyncState, &r.SyncFailureReason, &r.PhotoRefs, &r.Version,
	}
}

func (r draftRow) toDraft() (models.Draft, error) {
	d := models.Draft{
		ID:                r.ID,
		Type:              models.InterventionType(r.Type),
		AgentID:           r.AgentID,
		AgentName:         r.AgentName,
		SyncState:         models.SyncState(r.SyncState),
		SyncFailureReason: r.SyncFailureReason,
		Version:           r.Version,
	}

	if err := json.Unmarshal([]byte(r.Payload), &d.Payload); err != nil {
		return models.Draft{}, fmt.Errorf("%w: payload: %w", ErrDecodingRecord, err)
	}
	if err := json.Unmarshal([]byte(r.Refs), &d.References); err != nil {
		return models.Draft{}, fmt.Errorf("%w: references: %w", ErrDecodingRecord, err)
	}
	if err := json.Unmarshal([]byte(r.PhotoRefs), &d.PhotoRefs); err != nil {
		return models.Draft{}, fmt.Errorf("%w: photo refs: %w", ErrDecodingRecord, err)
	}

	var err error
	if d.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return models.Draft{}, fmt.Errorf("%w: created_at: %w", ErrDecodingRecord, err)
	}
	if d.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return models.Draft{}, fmt.Errorf("%w: updated_at: %w", ErrDecodingRecord, err)
	}
	if d.ExpiresAt, err = parseTime(r.ExpiresAt); err != nil {
		return models.Draft{}, fmt.Errorf("%w: expires_at: %w", ErrDecodingRecord, err)
	}

	return d, nil
}

func buildInsertDraftQuery(row draftRow) (string, []any, error) {
	return sqlite.Insert(draftsTable).
		Columns(draftColumns...).
		Values(row.values()...).
		ToSql()
}

func buildReplaceDraftQuery(row draftRow, expectedVersion int64) (string, []any, error) {
	return sqlite.Update(draftsTable).
		SetMap(sq.Eq{
			"intervention_type":   row.Type,
			"payload":             row.Payload,
			"refs":                row.Refs,
			"agent_id":            row.AgentID,
			"agent_name":          row.AgentName,
			"updated_at":          row.UpdatedAt,
			"sync_state":          row.SyncState,
			"sync_failure_reason": row.SyncFailureReason,
			"photo_refs":          row.PhotoRefs,
			"version":             row.Version,
		}).
		Where(sq.Eq{"id": row.ID, "version": expectedVersion}).
		ToSql()
}

func buildGetDraftQuery(id string) (string, []any, error) {
	return sqlite.Select(draftColumns...).
		From(draftsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDraftExistsQuery(id string) (string, []any, error) {
	return sqlite.Select("COUNT(1)").
		From(draftsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildListActiveDraftsQuery(now time.Time) (string, []any, error) {
	return sqlite.Select(draftColumns...).
		From(draftsTable).
		Where(sq.GtOrEq{"expires_at": formatTime(now)}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
}

func buildListExpiredDraftsQuery(now time.Time) (string, []any, error) {
	return sqlite.Select(draftColumns...).
		From(draftsTable).
		Where(sq.Lt{"expires_at": formatTime(now)}).
		ToSql()
}

func buildDeleteDraftQuery(id string) (string, []any, error) {
	return sqlite.Delete(draftsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDeleteExpiredDraftsQuery(now time.Time) (string, []any, error) {
	return sqlite.Delete(draftsTable).
		Where(sq.Lt{"expires_at": formatTime(now)}).
		ToSql()
}
