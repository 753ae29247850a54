// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPayload_Merge(t *testing.T) {
	base := Payload{"washType": "exterior", "notes": "front bumper"}
	merged := base.Merge(Payload{"washType": "complete"})

	assert.Equal(t, Payload{"washType": "complete", "notes": "front bumper"}, merged)
	assert.Equal(t, "exterior", base["washType"], "merge must not mutate the receiver")
}

func TestPayload_MergeNil(t *testing.T) {
	var base Payload
	merged := base.Merge(nil)

	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestDraft_Expired(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := Draft{ExpiresAt: exp}

	assert.False(t, d.Expired(exp), "a draft is still valid at exactly ExpiresAt")
	assert.True(t, d.Expired(exp.Add(time.Nanosecond)))
}

func TestDraft_CloneIsIndependent(t *testing.T) {
	reason := "network"
	d := Draft{
		Payload:           Payload{"liters": 10.0},
		PhotoRefs:         []PhotoRef{{ID: "a"}},
		SyncFailureReason: &reason,
	}

	c := d.Clone()
	c.Payload["liters"] = 20.0
	c.PhotoRefs[0].ID = "b"
	*c.SyncFailureReason = "rejected"

	assert.Equal(t, 10.0, d.Payload["liters"])
	assert.Equal(t, "a", d.PhotoRefs[0].ID)
	assert.Equal(t, "network", *d.SyncFailureReason)
}

func TestInterventionType_Valid(t *testing.T) {
	for _, typ := range InterventionTypes {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, InterventionType("oil-change").Valid())
	assert.False(t, InterventionType("").Valid())
}

func TestSyncState_Editable(t *testing.T) {
	assert.True(t, LocalOnly.Editable())
	assert.True(t, SyncFailed.Editable())
	assert.False(t, SyncPending.Editable())
	assert.False(t, Synced.Editable())
}

func TestNewAppBuildInfo_Defaults(t *testing.T) {
	info := NewAppBuildInfo("", "2026-01-02", "")

	assert.Equal(t, "N/A", info.Version)
	assert.Equal(t, "2026-01-02", info.Date)
	assert.Equal(t, "N/A", info.Commit)
	assert.Contains(t, info.String(), "Build date: 2026-01-02")
}
