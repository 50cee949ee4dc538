package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "data/in_confidence.csv", outputPath("data/in.csv", "confidence"))
	assert.Equal(t, "ids_PMID.csv", outputPath("ids", "PMID"))
	assert.Equal(t, "a.b/list_text.csv", outputPath("a.b/list.txt", "text"))
}

func TestReadIDColumn(t *testing.T) {
	path := writeFile(t, "ids.csv", "x,PMC1\ny,\nz\nw, 55555 \n")

	col, err := readIDColumn(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"PMC1", "", "", "55555"}, col)
	assert.Equal(t, []string{"PMC1", "55555"}, nonEmpty(col))

	_, err = readIDColumn(path, -1)
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestReadLabeled(t *testing.T) {
	path := writeFile(t, "labeled.csv", "label,id\n1,PMC1\n0,PMC2\n")
	rows, err := readLabeled(path)
	require.NoError(t, err)
	assert.Equal(t, []cazy.Labeled{{ID: "PMC1", Label: 1}, {ID: "PMC2", Label: 0}}, rows)

	_, err = readLabeled(writeFile(t, "bad.csv", "pmcid,label\nPMC1,1\n"))
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = readLabeled(writeFile(t, "bad.csv", "id,label\nPMC1,yes\n"))
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestWriteResultTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := ids.ResultTable{
		{ID: "PMC1", PMCID: "PMC1", Confidence: score.Scored(87.5)},
		{ID: "10.1/x", PMCID: ids.NotFound, Confidence: score.Unscored},
	}
	require.NoError(t, writeResultTable(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,pmcid,%confidence\nPMC1,PMC1,87.5\n10.1/x,not found,None\n", string(data))
}

func TestFormatTable(t *testing.T) {
	got := formatTable([]string{"A", "BB"}, [][]string{{"xyz", "1"}})
	want := strings.Join([]string{
		"A    BB",
		"---  --",
		"xyz  1",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}
