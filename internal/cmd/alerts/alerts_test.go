package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alicedeps/internal/cmd/output"
	"github.com/agentstation/alicedeps/pkg/pom"
)

func TestChangeLog(t *testing.T) {
	log := []pom.ChangeRecord{
		{File: "a/pom.xml", Changes: []pom.Change{{Tag: "x.version", Old: "1", New: "2"}}},
		{File: "b/pom.xml", Changes: []pom.Change{
			{Tag: "y.version", Old: "1", New: "3"},
			{Tag: "z.version", Old: "", New: "4"},
		}},
	}

	update := ChangeLog(false, log)
	assert.Equal(t, LevelSuccess, update.Level)
	assert.Equal(t, "Update: 3 changes", update.Message)
	assert.Equal(t, []string{"x.version: 1 -> 2", "y.version: 1 -> 3", "z.version:  -> 4"}, update.Details)

	preview := ChangeLog(true, nil)
	assert.Equal(t, LevelInfo, preview.Level)
	assert.Equal(t, "Preview: 0 changes", preview.Message)
	assert.Empty(t, preview.Details)
}

func TestFormatWriterTable(t *testing.T) {
	var buf bytes.Buffer
	alert := NewError("Update failed").WithError(errors.New("boom")).WithDetails("see log")

	require.NoError(t, NewFormatWriter(&buf, output.FormatTable).WriteAlert(alert))
	assert.Equal(t, "✗ Update failed: boom\n   see log\n", buf.String())
}

func TestFormatWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatWriter(&buf, output.FormatJSON).WriteAlert(NewWarning("nothing to do")))
	assert.JSONEq(t, `{"level":"warning","message":"nothing to do"}`, buf.String())
}

func TestFormatWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatWriter(&buf, output.FormatYAML).WriteAlert(NewSuccess("done").WithDetails("one")))
	assert.Contains(t, buf.String(), "level: success\nmessage: done\n")
	assert.Contains(t, buf.String(), "- one")
}

func TestFormatWriterPlainColor(t *testing.T) {
	var buf bytes.Buffer
	writer := NewFormatWriter(&buf, "").WithConfig(WriterConfig{UseColor: true})
	require.NoError(t, writer.WriteAlert(NewInfo("watching")))
	assert.Equal(t, LevelInfo.Color()+"i watching"+ResetColor()+"\n", buf.String())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
	assert.Equal(t, "?", Level(9).Icon())
}
