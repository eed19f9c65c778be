package alicedeps_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alicedeps"
	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
	"github.com/agentstation/alicedeps/pkg/normalize"
	"github.com/agentstation/alicedeps/pkg/records"
	"github.com/agentstation/alicedeps/pkg/workbook"
)

const projectPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <properties>
    <payment-service.version>4.1</payment-service.version>
    <ledger.version>1.0</ledger.version>
  </properties>
</project>
`

func deliveryWorkbook(t *testing.T) string {
	t.Helper()
	return workbook.WriteTestWorkbook(t, "deliveries.xlsx",
		workbook.TestSheet{
			Name: normalize.SheetDeliveries,
			Rows: [][]any{
				{"Lot", "Date", nil, nil, nil},
				{"L1", "x", "Module", "Composant", "Tag de livraison"},
				{"L1", "x", "payment", "service", "4.2"},
				{"L1", "x", "web", "frontend", "9.9"},
			},
		},
		workbook.TestSheet{
			Name: normalize.SheetExchanges,
			Rows: [][]any{
				{"Livraison echanges"},
				{},
				{"", "Module", "Version"},
				{"", "ledger", "1.1"},
			},
		},
	)
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte(projectPOM), 0o644))
	return dir
}

func newClient(t *testing.T, opts ...alicedeps.Option) (alicedeps.Client, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	client, err := alicedeps.New(append([]alicedeps.Option{alicedeps.WithLogger(tl.Logger)}, opts...)...)
	require.NoError(t, err)
	return client, tl
}

func TestUpdate(t *testing.T) {
	book := deliveryWorkbook(t)
	project := writeProject(t)
	client, tl := newClient(t)

	result, err := client.Update(context.Background(), book, project)
	require.NoError(t, err)

	assert.False(t, result.Preview)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, records.Set{{Module: "payment-service", Version: "4.2"}}, result.Normalize.Deliveries)
	assert.Equal(t, records.Set{{Module: "ledger", Version: "1.1"}}, result.Normalize.Exchanges)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, []string{
		"payment-service.version: 4.1 -> 4.2",
		"ledger.version: 1.0 -> 1.1",
	}, result.Changes[0].Lines())
	assert.Equal(t, 2, result.Total())

	data, err := os.ReadFile(filepath.Join(project, "pom.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<payment-service.version>4.2</payment-service.version>")
	assert.FileExists(t, result.Normalize.DeliveriesPath)
	assert.FileExists(t, result.Normalize.ExchangesPath)

	tl.AssertContains(t, result.RunID)
	tl.AssertContains(t, "Descriptor updated")
}

func TestUpdatePreview(t *testing.T) {
	book := deliveryWorkbook(t)
	project := writeProject(t)
	client, _ := newClient(t, alicedeps.WithPreview(true))
	assert.True(t, client.Preview())

	result, err := client.Update(context.Background(), book, project)
	require.NoError(t, err)
	assert.True(t, result.Preview)
	assert.Equal(t, 2, result.Total())

	data, err := os.ReadFile(filepath.Join(project, "pom.xml"))
	require.NoError(t, err)
	assert.Equal(t, projectPOM, string(data))
}

func TestUpdateEmptyCorpus(t *testing.T) {
	book := workbook.WriteTestWorkbook(t, "empty.xlsx",
		workbook.TestSheet{Name: normalize.SheetDeliveries, Rows: [][]any{
			{"Lot", "Date"},
			{nil, nil, nil, nil, "orphan"},
		}},
		workbook.TestSheet{Name: normalize.SheetExchanges, Rows: [][]any{
			{"Livraison echanges"},
			{},
			{"", "Module", "Version"},
		}},
	)
	project := writeProject(t)
	client, _ := newClient(t)

	_, err := client.Update(context.Background(), book, project)
	assert.ErrorIs(t, err, errors.ErrNoRecords)

	data, err := os.ReadFile(filepath.Join(project, "pom.xml"))
	require.NoError(t, err)
	assert.Equal(t, projectPOM, string(data))
}

func TestUpdateNormalizationFailure(t *testing.T) {
	book := workbook.WriteTestWorkbook(t, "partial.xlsx",
		workbook.TestSheet{Name: normalize.SheetDeliveries, Rows: [][]any{{"Lot", "Date", nil, nil, nil}}},
	)
	client, _ := newClient(t)

	_, err := client.Update(context.Background(), book, writeProject(t))
	assert.True(t, errors.IsNormalization(err))
}

func TestLoadRecordsAndPatch(t *testing.T) {
	dir := t.TempDir()
	deliveries := filepath.Join(dir, "book_clean.json")
	exchanges := filepath.Join(dir, "book_clean-module.json")
	require.NoError(t, records.WriteArtifact(deliveries, records.Set{{Module: "payment", Version: "5.0"}}))
	require.NoError(t, records.WriteArtifact(exchanges, records.Set{{Module: "payment-service", Version: "6.0"}}))

	client, _ := newClient(t, alicedeps.WithPreview(true))
	corpus, err := client.LoadRecords(deliveries, exchanges)
	require.NoError(t, err)
	assert.Equal(t, 2, corpus.Len())

	match, ok := corpus.Match("payment-service.version")
	require.True(t, ok)
	assert.Equal(t, "5.0", match.Version)

	changes, err := client.Patch(context.Background(), writeProject(t),
		records.Set{{Module: "payment", Version: "5.0"}},
		records.Set{{Module: "payment-service", Version: "6.0"}})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, []string{"payment-service.version: 4.1 -> 5.0"}, changes[0].Lines())
}

func TestLoadRecordsMissingArtifact(t *testing.T) {
	client, _ := newClient(t)
	_, err := client.LoadRecords(filepath.Join(t.TempDir(), "missing.json"), "other.json")
	var resErr *errors.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "records", resErr.Resource)
}

func TestPatchMissingProject(t *testing.T) {
	client, _ := newClient(t)
	_, err := client.Patch(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.True(t, errors.IsPatch(err))
}

func TestRunIDFromContextIsKept(t *testing.T) {
	client, tl := newClient(t)
	ctx := logging.WithRunID(logging.WithLogger(context.Background(), tl.Logger), "fixed-run")

	result, err := client.Update(ctx, deliveryWorkbook(t), writeProject(t))
	require.NoError(t, err)
	assert.Equal(t, "fixed-run", result.RunID)
}

func TestNewRejectsNilLogger(t *testing.T) {
	_, err := alicedeps.New(alicedeps.WithLogger(nil))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
