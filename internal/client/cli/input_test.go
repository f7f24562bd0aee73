package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText_TrimsLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("  tengwa  \n"))
	var out bytes.Buffer

	got, err := GetSimpleText(r, "Word", &out)
	require.NoError(t, err)
	require.Equal(t, "tengwa", got)
	require.Contains(t, out.String(), "Word")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("no newline"))
	var out bytes.Buffer

	got, err := GetSimpleText(r, "Word", &out)
	require.NoError(t, err)
	require.Equal(t, "no newline", got)
}

func TestGetMultiline_JoinsUntilBlank(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("line one\nline two\n\nignored\n"))
	var out bytes.Buffer

	got, err := GetMultiline(r, "Text", &out)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", got)
}

func TestGetKeyValues(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Plural = tengwar\nbogus line\nStem=teng\n\n"))
	var out bytes.Buffer

	got, err := GetKeyValues(r, &out)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Plural": "tengwar", "Stem": "teng"}, got)
	require.Contains(t, out.String(), "Skipping line")
}
