// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SubmissionPhoto carries one compressed photo inside a submission.
type SubmissionPhoto struct {
	PhotoRef
	Data []byte `json:"data"`
}

// SubmissionRequest is the body sent to the remote submission endpoint.
// It carries the full draft; the backend deduplicates on DraftID.
type SubmissionRequest struct {
	DraftID   string           `json:"draftId"`
	Type      InterventionType `json:"interventionType"`
	Payload   Payload          `json:"payload"`
	References
	AgentID   string            `json:"agentId,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Photos    []SubmissionPhoto `json:"photos,omitempty"`
}

// SubmissionReceipt is returned by the backend once a submission is persisted.
type SubmissionReceipt struct {
	DraftID    string    `json:"draftId"`
	ReceivedAt time.Time `json:"receivedAt"`

	// Duplicate is true when the backend already held this draft.
	Duplicate bool `json:"duplicate"`
}

// Intervention is the backend-side record created from a submission.
type Intervention struct {
	DraftID    string           `json:"draftId"`
	Type       InterventionType `json:"interventionType"`
	Payload    Payload          `json:"payload"`
	References
	AgentID    string    `json:"agentId"`
	PhotoCount int       `json:"photoCount"`
	PhotoBytes int64     `json:"photoBytes"`
	CreatedAt  time.Time `json:"createdAt"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// SyncReport summarises one pass of the sync service.
type SyncReport struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}
