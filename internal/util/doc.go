// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the skybot packages.
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - TruncateRunes, TruncateWidth, PadRight: display-safe string shaping
package util
