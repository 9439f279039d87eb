// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("hello, world!"), 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello, world!", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0o644))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0o644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0o644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "1 B", FormatBytes(1))
	require.Equal(t, "1023 B", FormatBytes(1023))
	require.Equal(t, "1.5 KiB", FormatBytes(1536))
	require.Equal(t, "60.0 MiB", FormatBytes(60<<20))
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		input    string
		maxRunes int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"hello world", 0, ""},
		{"abcd", 3, "abc"},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, TruncateRunes(tc.input, tc.maxRunes), "%q/%d", tc.input, tc.maxRunes)
	}
}

func TestTruncateWidth(t *testing.T) {
	require.Equal(t, "hello", TruncateWidth("hello", 5))
	require.Equal(t, "he...", TruncateWidth("hello world", 5))
	require.Equal(t, "", TruncateWidth("hello", 0))
	require.Equal(t, "日", TruncateWidth("日本語", 3))

	out := TruncateWidth("日本語のチャンネル", 8)
	require.LessOrEqual(t, StringWidth(out), 8)
}

func TestStringWidthAndPad(t *testing.T) {
	require.Equal(t, 5, StringWidth("hello"))
	require.Equal(t, 4, StringWidth("日本"))
	require.Equal(t, "日本  |", PadRight("日本", 6)+"|")
	require.Equal(t, "toolong", PadRight("toolong", 3))
}
