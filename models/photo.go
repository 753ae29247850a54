// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PhotoRef references a compressed image held in the local blob store.
type PhotoRef struct {
	// ID names the blob in the blob store.
	ID string `json:"id"`

	// Size is the compressed byte size of the blob.
	Size int64 `json:"size"`

	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`

	AddedAt time.Time `json:"addedAt"`
}

// PhotoBlob is a photo ready to be attached to a draft: bytes already
// compressed plus the metadata describing them.
type PhotoBlob struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
