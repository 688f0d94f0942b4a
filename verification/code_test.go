package verification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uslng/membergate/model"
)

func TestGenerateLength(t *testing.T) {
	g := NewCodeGenerator(0)
	code, err := g.Generate()
	require.NoError(t, err)
	require.Len(t, code, model.CodeLength)

	g = NewCodeGenerator(16)
	code, err = g.Generate()
	require.NoError(t, err)
	require.Len(t, code, 16)
}

func TestGenerateAlphabet(t *testing.T) {
	g := NewCodeGenerator(64)
	code, err := g.Generate()
	require.NoError(t, err)
	for _, r := range code {
		require.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
	}
}

func TestGenerateUnique(t *testing.T) {
	g := NewCodeGenerator(model.CodeLength)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %v", code)
		seen[code] = struct{}{}
	}
}
