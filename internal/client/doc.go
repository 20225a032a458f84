// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the accounts service.
//
// One [App.Run] call sends a single command through a [adapter.ServerAdapter]
// and prints the reply. Plain-text passwords given to "register" and
// "changePassword" are bcrypt-hashed before they leave the process.
package client
