package pom_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/logging"
	"github.com/agentstation/alicedeps/pkg/pom"
	"github.com/agentstation/alicedeps/pkg/records"
)

const paymentPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
    <modelVersion>4.0.0</modelVersion>
    <artifactId>payment</artifactId>
    <!-- versions managed by the delivery sheet -->
    <properties>
        <java.version>17</java.version>
        <payment-service.version>4.1</payment-service.version>
        <ledger-batch.version>2024-01-10</ledger-batch.version>
        <payment-service.timeout>30</payment-service.timeout>
    </properties>
    <dependencies>
        <dependency>
            <artifactId>payment-service</artifactId>
            <version>${payment-service.version}</version>
        </dependency>
    </dependencies>
</project>
`

const noPropertiesPOM = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <artifactId>parent</artifactId>
</project>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newPatcher(preview bool) *pom.Patcher {
	logger := logging.Nop
	return pom.NewPatcher(pom.WithPreview(preview), pom.WithLogger(&logger))
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "payment", "pom.xml")
	writeFile(t, path, paymentPOM)

	corpus := records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}})
	log, err := newPatcher(false).Run(context.Background(), root, corpus)
	require.NoError(t, err)

	require.Len(t, log, 1)
	assert.Equal(t, path, log[0].File)
	assert.Equal(t, []string{"payment-service.version: 4.1 -> 4.2"}, log[0].Lines())

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		`<project xmlns="http://maven.apache.org/POM/4.0.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n" +
		"    <modelVersion>4.0.0</modelVersion>\n" +
		"    <artifactId>payment</artifactId>\n" +
		"    <!-- versions managed by the delivery sheet -->\n" +
		"    <properties>\n" +
		"        <java.version>17</java.version>\n" +
		"        <payment-service.version>4.2</payment-service.version>\n" +
		"        <ledger-batch.version>2024-01-10</ledger-batch.version>\n" +
		"        <payment-service.timeout>30</payment-service.timeout>\n" +
		"    </properties>\n" +
		"    <dependencies>\n" +
		"        <dependency>\n" +
		"            <artifactId>payment-service</artifactId>\n" +
		"            <version>${payment-service.version}</version>\n" +
		"        </dependency>\n" +
		"    </dependencies>\n" +
		"</project>\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestRunIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), paymentPOM)
	writeFile(t, filepath.Join(root, "ledger", "pom.xml"), paymentPOM)

	corpus := records.Concat(
		records.Set{{Module: "payment-service", Version: "4.2"}},
		records.Set{{Module: "ledger", Version: "2024-03-05"}},
	)
	patcher := newPatcher(false)

	first, err := patcher.Run(context.Background(), root, corpus)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Equal(t, 4, pom.Summary(first))

	second, err := patcher.Run(context.Background(), root, corpus)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestRunPreviewDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, paymentPOM)
	before, err := os.Stat(path)
	require.NoError(t, err)

	corpus := records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}})
	log, err := newPatcher(true).Run(context.Background(), root, corpus)
	require.NoError(t, err)

	require.Len(t, log, 1)
	assert.Equal(t, []string{"payment-service.version: 4.1 -> 4.2"}, log[0].Lines())
	assert.Equal(t, paymentPOM, readFile(t, path))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	again, err := newPatcher(true).Run(context.Background(), root, corpus)
	require.NoError(t, err)
	assert.Equal(t, log, again, "preview leaves the tree unchanged so it reports the same changes")
}

func TestRunFirstSubstringMatchWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), `<project xmlns="http://maven.apache.org/POM/4.0.0">
  <properties>
    <auth-service.version>1.0</auth-service.version>
  </properties>
</project>
`)

	corpus := records.Concat(records.Set{
		{Module: "auth", Version: "2.0"},
		{Module: "auth-service", Version: "3.0"},
	})
	log, err := newPatcher(true).Run(context.Background(), root, corpus)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, []string{"auth-service.version: 1.0 -> 2.0"}, log[0].Lines())
}

func TestRunSkipsDescriptorWithoutProperties(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, noPropertiesPOM)

	corpus := records.Concat(records.Set{{Module: "parent", Version: "9"}})
	log, err := newPatcher(false).Run(context.Background(), root, corpus)
	require.NoError(t, err)
	assert.Empty(t, log)
	assert.Equal(t, noPropertiesPOM, readFile(t, path))
}

func TestRunIgnoresPropertiesOutsidePOMNamespace(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	content := `<project>
  <properties>
    <core.version>1.0</core.version>
  </properties>
</project>
`
	writeFile(t, path, content)

	log, err := newPatcher(false).Run(context.Background(), root,
		records.Concat(records.Set{{Module: "core", Version: "2.0"}}))
	require.NoError(t, err)
	assert.Empty(t, log)
	assert.Equal(t, content, readFile(t, path))
}

func TestRunOnlyVisitsFilesNamedPOM(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "c", "pom.xml"), paymentPOM)
	writeFile(t, filepath.Join(root, "pom.xml.bak"), paymentPOM)
	writeFile(t, filepath.Join(root, "other.xml"), paymentPOM)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", "pom.xml"), 0o755))

	corpus := records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}})
	log, err := newPatcher(false).Run(context.Background(), root, corpus)
	require.NoError(t, err)

	require.Len(t, log, 1)
	assert.Equal(t, filepath.Join(root, "a", "b", "c", "pom.xml"), log[0].File)
	assert.Equal(t, paymentPOM, readFile(t, filepath.Join(root, "pom.xml.bak")))
	assert.Equal(t, paymentPOM, readFile(t, filepath.Join(root, "other.xml")))
}

func TestRunMalformedDescriptorAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "pom.xml"), paymentPOM)
	writeFile(t, filepath.Join(root, "b", "pom.xml"), paymentPOM)
	writeFile(t, filepath.Join(root, "broken", "pom.xml"),
		`<project xmlns="http://maven.apache.org/POM/4.0.0"><properties><x.version>1</x.version>`)

	corpus := records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}})
	log, err := newPatcher(false).Run(context.Background(), root, corpus)
	require.Error(t, err)
	assert.Nil(t, log)
	assert.True(t, errors.IsPatch(err))

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, filepath.Join(root, "broken", "pom.xml"), parseErr.File)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := newPatcher(false).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), records.Concat())
	assert.True(t, errors.IsPatch(err))
}

func TestRunCanceledContext(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, paymentPOM)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPatcher(false).Run(ctx, root,
		records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}}))
	assert.True(t, errors.IsPatch(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, paymentPOM, readFile(t, path))
}

func TestRunMultipleChangesKeepDocumentOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), paymentPOM)

	corpus := records.Concat(
		records.Set{{Module: "ledger-batch", Version: "2024-03-05"}},
		records.Set{{Module: "payment-service", Version: "4.2"}, {Module: "java", Version: "17"}},
	)
	log, err := newPatcher(true).Run(context.Background(), root, corpus)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, []string{
		"payment-service.version: 4.1 -> 4.2",
		"ledger-batch.version: 2024-01-10 -> 2024-03-05",
	}, log[0].Lines())
}

func TestRunKeepsUntouchedTextLiteral(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <name>Don&apos;t "quote"</name>
  <description lang="fr 'ch' &gt; en">Billing &amp; ledger &lt;core&gt; 'beta'</description>
  <properties>
    <billing-api.version>1.0</billing-api.version>
  </properties>
</project>
`)

	corpus := records.Concat(records.Set{{Module: "billing-api", Version: "1.1"}})
	_, err := newPatcher(false).Run(context.Background(), root, corpus)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <name>Don't "quote"</name>
  <description lang="fr 'ch' > en">Billing &amp; ledger &lt;core&gt; 'beta'</description>
  <properties>
    <billing-api.version>1.1</billing-api.version>
  </properties>
</project>
`
	assert.Equal(t, want, readFile(t, path))
}

func TestRunEmptyPropertyRendersEmptyOld(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, `<project xmlns="http://maven.apache.org/POM/4.0.0">
  <properties>
    <gateway.version/>
  </properties>
</project>
`)

	log, err := newPatcher(false).Run(context.Background(), root,
		records.Concat(records.Set{{Module: "gateway", Version: "1.0"}}))
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, []string{"gateway.version:  -> 1.0"}, log[0].Lines())
	assert.Contains(t, readFile(t, path), "<gateway.version>1.0</gateway.version>")
}

func TestRunTagsLogsWithProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), paymentPOM)
	corpus := records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}})

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	_, err := pom.NewPatcher(pom.WithPreview(true)).Run(ctx, root, corpus)
	require.NoError(t, err)

	tl.AssertContains(t, `"project":"`+root+`"`)
	tl.AssertContains(t, `"preview":true`)
	tl.AssertContains(t, "Patch run complete")
}

func TestRunPreservesFileMode(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "pom.xml")
	writeFile(t, path, paymentPOM)
	require.NoError(t, os.Chmod(path, 0o600))

	_, err := newPatcher(false).Run(context.Background(), root,
		records.Concat(records.Set{{Module: "payment-service", Version: "4.2"}}))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"pom.xml"}, names, "no temporary files left behind")
}

func TestChangeRecordJSON(t *testing.T) {
	rec := pom.ChangeRecord{
		File:    "/repo/pom.xml",
		Changes: []pom.Change{{Tag: "core.version", Old: "1.0", New: "1.1"}},
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"/repo/pom.xml","changes":["core.version: 1.0 -> 1.1"]}`, string(data))
}

func TestPatchFileSingleDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.xml")
	writeFile(t, path, paymentPOM)

	rec, err := newPatcher(true).PatchFile(context.Background(), path,
		records.Concat(records.Set{{Module: "unrelated", Version: "1"}}))
	require.NoError(t, err)
	assert.Nil(t, rec)
}
