// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package channels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestNormalizeAndDisplayName(t *testing.T) {
	tests := []struct {
		raw, name, label string
	}{
		{"Project X", "project_x", "Project X"},
		{"  quality  ", "quality", "Quality"},
		{"HR Policies 2024", "hr_policies_2024", "Hr Policies 2024"},
		{"already_normal", "already_normal", "Already Normal"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.name, Normalize(tt.raw))
		require.Equal(t, tt.label, DisplayName(tt.name))
	}
	require.Equal(t, WildcardLabel, DisplayName(Wildcard))
}

func TestNew_Defaults(t *testing.T) {
	r := New()
	require.Equal(t, []string{General}, names(r.Targets()))
	require.Equal(t, []string{Wildcard, General}, names(r.Filters()))
	require.Equal(t, General, r.Target())
	_, ok := r.ChatChannel()
	require.False(t, ok)
}

func TestRefresh_EmptyLeavesRegistryUnchanged(t *testing.T) {
	r := New()
	require.True(t, r.Refresh([]string{"general", "process"}))
	require.NoError(t, r.SelectFilter("process"))

	require.False(t, r.Refresh(nil))
	require.False(t, r.Refresh([]string{}))
	require.Equal(t, []string{General, "process"}, r.Names())
	require.Equal(t, "process", r.Filter())
}

func TestRefresh_GeneralFirstAndDeduplicated(t *testing.T) {
	r := New()
	r.Refresh([]string{"process", "general", "quality", "process", ""})
	require.Equal(t, []string{General, "process", "quality"}, names(r.Targets()))
	require.Equal(t, []string{Wildcard, General, "process", "quality"}, names(r.Filters()))
}

func TestRefresh_PreservesStillValidSelections(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "process", "quality"})
	require.NoError(t, r.SelectFilter("quality"))
	require.NoError(t, r.SelectTarget("process"))

	r.Refresh([]string{"general", "quality", "process", "safety"})
	require.Equal(t, "quality", r.Filter())
	require.Equal(t, "process", r.Target())

	name, ok := r.ChatChannel()
	require.True(t, ok)
	require.Equal(t, "quality", name)
}

func TestRefresh_FallsBackWhenSelectionDisappears(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "process", "quality"})
	require.NoError(t, r.SelectFilter("quality"))
	require.NoError(t, r.SelectTarget("process"))

	r.Refresh([]string{"general", "safety"})
	require.Equal(t, Wildcard, r.Filter())
	require.Equal(t, General, r.Target())
}

func TestAdd_NormalizesAppendsAndSelects(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "process"})

	name, err := r.Add("Project X")
	require.NoError(t, err)
	require.Equal(t, "project_x", name)

	targets := r.Targets()
	require.Equal(t, []string{General, "process", "project_x"}, names(targets))
	require.Equal(t, "Project X", targets[2].Label)
	require.True(t, targets[2].Pending)
	require.Contains(t, names(r.Filters()), "project_x")
	require.Equal(t, "project_x", r.Target())
	require.True(t, r.IsPending("project_x"))
}

func TestAdd_RejectsDuplicatesAndEmpty(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "project_x"})
	require.NoError(t, r.SelectTarget(General))

	name, err := r.Add("PROJECT X")
	require.ErrorIs(t, err, ErrDuplicate)
	require.Equal(t, "project_x", name)
	require.Equal(t, General, r.Target())
	require.Len(t, r.Targets(), 2)

	_, err = r.Add("   ")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestPending_ConfirmedByRefresh(t *testing.T) {
	r := New()
	r.Refresh([]string{"general"})
	r.Add("new one")

	r.Refresh([]string{"general", "new_one"})
	require.False(t, r.IsPending("new_one"))
	require.Equal(t, "new_one", r.Target())
}

func TestPending_KeptWhileSelectedTarget(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "process"})
	r.Add("draft")

	r.Refresh([]string{"general", "process"})
	require.Equal(t, []string{General, "process", "draft"}, r.Names())
	require.Equal(t, "draft", r.Target())
	require.True(t, r.IsPending("draft"))
}

func TestPending_EvictedWhenNotSelected(t *testing.T) {
	r := New()
	r.Refresh([]string{"general", "process"})
	r.Add("draft")
	require.NoError(t, r.SelectFilter("draft"))
	require.NoError(t, r.SelectTarget("process"))

	r.Refresh([]string{"general", "process"})
	require.Equal(t, []string{General, "process"}, r.Names())
	require.False(t, r.IsPending("draft"))
	require.Equal(t, Wildcard, r.Filter())
}

func TestConfirm(t *testing.T) {
	r := New()
	r.Add("draft")
	r.Confirm("draft")
	require.False(t, r.IsPending("draft"))
	require.NoError(t, r.SelectTarget(General))

	// Confirmed names follow the backend list like any other.
	r.Refresh([]string{"general"})
	require.Equal(t, []string{General}, r.Names())
}

func TestSelect_Unknown(t *testing.T) {
	r := New()
	require.ErrorIs(t, r.SelectTarget("nope"), ErrUnknown)
	require.ErrorIs(t, r.SelectFilter("nope"), ErrUnknown)
	require.NoError(t, r.SelectFilter(Wildcard))
	require.ErrorIs(t, r.SelectTarget(Wildcard), ErrUnknown)
}
