package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "message only",
			diag:     Diagnostic{Message: "boom"},
			expected: "boom",
		},
		{
			name:     "struct and code",
			diag:     Diagnostic{Code: CodeStructRemoved, Message: "gone", Struct: "Color"},
			expected: "[Color]: [struct_removed] gone",
		},
		{
			name: "member with suggestions",
			diag: Diagnostic{
				Code:        CodeMemberDropped,
				Message:     "not in the new layout",
				Struct:      "Mesh",
				Member:      "totvert",
				Suggestions: []string{"verts_num"},
			},
			expected: "[Mesh] totvert: [member_dropped] not in the new layout (did you mean verts_num?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestDiagnosticsBySeverity(t *testing.T) {
	var d Diagnostics

	d.AddInfo("i", "info", "", "")
	d.AddWarning(CodeStructRemoved, "w", "A", "", "B")
	d.AddError("e", "err", "A", "x")

	assert.Equal(t, 3, d.Len())
	assert.True(t, d.HasErrors())
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, []string{"B"}, d.Warnings[0].Suggestions)
	assert.Equal(t, DiagnosticWarning, d.Warnings[0].Severity)

	require.EqualError(t, d.Error(), "[A] x: [e] err")
	assert.Len(t, d.ByCode(CodeStructRemoved), 1)
	assert.Empty(t, d.ByCode("missing"))
}

func TestDiagnosticsMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning("w", "one", "", "")
	b.AddWarning("w", "two", "", "")
	b.AddInfo("i", "three", "", "")

	a.Merge(b)

	assert.Len(t, a.Warnings, 2)
	assert.Len(t, a.Infos, 1)
	assert.False(t, a.HasErrors())
	require.NoError(t, a.Error())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
