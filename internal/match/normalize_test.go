package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bNodeSocket", "bnodesocket"},
		{"b_node_socket", "bnodesocket"},
		{"verts_num", "vertsnum"},
		{"UVMap", "uvmap"},
		{"totvert", "totvert"},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeStripped(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"totvert", "vert"},
		{"verts_num", "vert"},
		{"bScreen", "screen"},
		{"flags", "flag"},
		{"bus", "bus"},
		{"b", "b"},
		{"tot", "tot"},
		{"num", "num"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStripped(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"b", "node", "socket"}, Tokenize("bNodeSocket"))
	assert.Equal(t, []string{"get", "http", "response"}, Tokenize("getHTTPResponse"))
	assert.Equal(t, []string{"verts", "num"}, Tokenize("verts_num"))
	assert.Equal(t, []string{"uv", "map"}, Tokenize("UVMap"))
	assert.Nil(t, Tokenize(""))
}
