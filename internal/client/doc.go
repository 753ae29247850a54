// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the field agent runtime: the local draft store, the
// transport to the intake server, the client services and the background
// workers that keep drafts flowing once the device is back online.
package client
