package denylist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListTrimsAndSkipsBlank(t *testing.T) {
	input := "\uFEFFevil.example\n\n   \n\tbad word \nevil.example\n"
	entries, err := ParseList(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad word", "evil.example"}, entries)
}

func TestParseListEmpty(t *testing.T) {
	entries, err := ParseList(strings.NewReader(""), ParseOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseListExpandIDN(t *testing.T) {
	entries, err := ParseList(strings.NewReader("bücher.example\nplain.example\n"), ParseOptions{ExpandIDN: true})
	require.NoError(t, err)
	assert.Contains(t, entries, "bücher.example")
	assert.Contains(t, entries, "xn--bcher-kva.example")
	assert.Contains(t, entries, "plain.example")
	assert.Len(t, entries, 3)
}

func TestParseListNoIDNByDefault(t *testing.T) {
	entries, err := ParseList(strings.NewReader("bücher.example\n"), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bücher.example"}, entries)
}

func TestParseListExpandIDNOnlyConvertsHost(t *testing.T) {
	input := "https://bücher.example/Pfad?q=1\nbücher.example:8080/x\nhttps://plain.example/ü\n"
	entries, err := ParseList(strings.NewReader(input), ParseOptions{ExpandIDN: true})
	require.NoError(t, err)
	assert.Contains(t, entries, "https://xn--bcher-kva.example/Pfad?q=1")
	assert.Contains(t, entries, "xn--bcher-kva.example:8080/x")
	assert.Len(t, entries, 5)
}
