// File path: internal/fam/parser_test.go
package fam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFullReply(t *testing.T) {
	t.Parallel()

	text := "Result found!\n" +
		"FAM ID : sugarsingh@fam\n" +
		"NAME : Sugar Singh\n" +
		"PHONE : +919000000000\n" +
		"TYPE : Contact\n"
	info := Parse(text)
	require.Equal(t, "sugarsingh@fam", info.FamID)
	require.Equal(t, "Sugar Singh", info.Name)
	require.Equal(t, "+919000000000", info.Phone)
	require.Equal(t, "contact", info.Type)
	require.True(t, info.Valid())
}

func TestParsePartialReply(t *testing.T) {
	t.Parallel()

	info := Parse("fam id: u123\nphone: +91900000000")
	require.Equal(t, "u123", info.FamID)
	require.Equal(t, "+91900000000", info.Phone)
	require.Empty(t, info.Name)
	require.Empty(t, info.Type)
	require.True(t, info.Valid())
}

func TestParseIgnoresChatter(t *testing.T) {
	t.Parallel()

	info := Parse("hello everyone, any update?")
	require.False(t, info.Valid())
	require.Empty(t, info.Name)
}

func TestParseTypeLowercased(t *testing.T) {
	t.Parallel()

	info := Parse("FAM ID: x\nTYPE: MERCHANT")
	require.Equal(t, "merchant", info.Type)
}

func TestHasMarkers(t *testing.T) {
	t.Parallel()

	require.True(t, HasMarkers("FAM ID : abc"))
	require.True(t, HasMarkers("phone: 123"))
	require.False(t, HasMarkers("good morning"))
	require.False(t, HasMarkers(""))
}
