package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdforge/stdforge/internal/artifact"
	"github.com/stdforge/stdforge/internal/assemble"
	"github.com/stdforge/stdforge/internal/classifier"
	"github.com/stdforge/stdforge/internal/cluster"
	"github.com/stdforge/stdforge/internal/convert"
	"github.com/stdforge/stdforge/internal/practice"
)

type scriptedClassifier struct {
	response string
}

func (s *scriptedClassifier) Name() string { return "scripted" }

func (s *scriptedClassifier) ExecutePrompt(context.Context, string) (string, error) {
	return s.response, nil
}

type recordingImporter struct {
	imported []string
	failFor  map[string]bool
}

func (r *recordingImporter) ImportStandard(_ context.Context, s assemble.Standard) error {
	if r.failFor[s.Name] {
		return fmt.Errorf("rejected")
	}
	r.imported = append(r.imported, s.Name)
	return nil
}

func writeExport(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func exportBody() string {
	return `{"name":"Alpha","description":"first","groupId":"g1"}
{"name":"Beta","description":"second","groupId":"g1"}
{"name":"Gamma","description":"third","groupId":"g2"}
`
}

func newRunner(c classifier.Classifier, outDir string, imp Importer) *Runner {
	return &Runner{
		Controller: cluster.New(c, rand.New(rand.NewSource(7)), cluster.Options{}),
		Convert:    convert.Record,
		Labels:     map[string]string{"g1": "Legacy"},
		Importer:   imp,
		OutputDir:  outDir,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	export := writeExport(t, dir, "java rules.ndjson", exportBody())
	outDir := filepath.Join(dir, "out")

	stub := &scriptedClassifier{response: `{"groups":[
		{"name":"Naming","description":"names","members":["Alpha","Beta"]},
		{"name":"Style","description":"style","members":["Gamma"]}
	]}`}
	importer := &recordingImporter{}

	summary, err := newRunner(stub, outDir, importer).Run(context.Background(), []string{export})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Collections)
	assert.Zero(t, summary.CollectionsFailed)
	assert.Equal(t, 2, summary.Standards)
	assert.Equal(t, 3, summary.Rules)
	assert.Equal(t, 2, summary.ImportsSucceeded)
	assert.True(t, summary.Succeeded())

	assert.Equal(t, []string{"Legacy - Naming", "Legacy - Style"}, importer.imported)

	mapping, err := artifact.ReadMapping(filepath.Join(outDir, "java-rules.mapping.yaml"))
	require.NoError(t, err)
	assert.Len(t, mapping.Groups, 2)

	doc, err := artifact.ReadValidation(filepath.Join(outDir, "java-rules.validation.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "java-rules", doc.Collection)
	require.Len(t, doc.Standards, 2)
}

func TestRun_CollectionFailureIsIsolated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// The classifier answers garbage, so every collection's clustering
	// fails; the loop must still visit both.
	first := writeExport(t, dir, "a.ndjson", exportBody())
	second := writeExport(t, dir, "b.ndjson", exportBody())

	stub := &scriptedClassifier{response: "no json here"}
	summary, err := newRunner(stub, filepath.Join(dir, "out"), nil).Run(context.Background(), []string{first, second})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Collections)
	assert.Equal(t, 2, summary.CollectionsFailed)
	assert.False(t, summary.Succeeded())
}

func TestRun_MalformedExportIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := writeExport(t, dir, "bad.ndjson", "{broken\n")
	never := writeExport(t, dir, "never.ndjson", exportBody())

	stub := &scriptedClassifier{response: `{"groups":[{"name":"G","members":["Alpha","Beta","Gamma"]}]}`}
	summary, err := newRunner(stub, filepath.Join(dir, "out"), nil).Run(context.Background(), []string{bad, never})
	require.ErrorIs(t, err, practice.ErrMalformedRecord)
	assert.Equal(t, 1, summary.Collections, "processing stops at the fatal record")
}

func TestRun_RejectedImportDoesNotBlockSiblings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	export := writeExport(t, dir, "c.ndjson", exportBody())

	stub := &scriptedClassifier{response: `{"groups":[
		{"name":"Naming","members":["Alpha","Beta"]},
		{"name":"Style","members":["Gamma"]}
	]}`}
	importer := &recordingImporter{failFor: map[string]bool{"Legacy - Naming": true}}

	summary, err := newRunner(stub, filepath.Join(dir, "out"), importer).Run(context.Background(), []string{export})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ImportsFailed)
	assert.Equal(t, 1, summary.ImportsSucceeded)
	assert.Equal(t, []string{"Legacy - Style"}, importer.imported)
	assert.True(t, summary.Succeeded())
}

func TestDiscoverExports(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeExport(t, dir, "b.ndjson", "")
	writeExport(t, dir, "a.jsonl", "")
	writeExport(t, dir, "ignored.txt", "")

	paths, err := DiscoverExports(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "a", Slug(paths[0]))
	assert.Equal(t, "b", Slug(paths[1]))

	_, err = DiscoverExports(t.TempDir())
	require.Error(t, err)
}

func TestRun_MappingOnlyStopsBeforeAssembly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	export := writeExport(t, dir, "java rules.ndjson", exportBody())
	outDir := filepath.Join(dir, "out")

	stub := &scriptedClassifier{response: `{"groups":[
		{"name":"Naming","description":"names","members":["Alpha","Beta","Gamma"]}
	]}`}
	r := newRunner(stub, outDir, &recordingImporter{})
	r.MappingOnly = true

	summary, err := r.Run(context.Background(), []string{export})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Collections)
	assert.Zero(t, summary.Standards)
	assert.Zero(t, summary.ImportsSucceeded)

	_, err = os.Stat(filepath.Join(outDir, "java-rules.mapping.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "java-rules.validation.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ReuseMappingsSkipsClassifier(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	export := writeExport(t, dir, "java rules.ndjson", exportBody())
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	// A reviewer moved Gamma into Naming after the cluster stage.
	edited := cluster.Mapping{Groups: []cluster.Group{
		{Name: "Naming", Description: "names", Members: []string{"Alpha", "Beta", "Gamma"}},
	}}
	require.NoError(t, artifact.WriteMapping(filepath.Join(outDir, "java-rules.mapping.yaml"), edited))

	r := &Runner{
		Convert:       convert.Record,
		Labels:        map[string]string{"g1": "Legacy"},
		OutputDir:     outDir,
		ReuseMappings: true,
	}
	summary, err := r.Run(context.Background(), []string{export})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Standards)
	assert.Equal(t, 3, summary.Rules)

	doc, err := artifact.ReadValidation(filepath.Join(outDir, "java-rules.validation.yaml"))
	require.NoError(t, err)
	require.Len(t, doc.Standards, 1)
	assert.Equal(t, "Legacy - Naming", doc.Standards[0].Name)
}

func TestImportValidated(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	doc := artifact.ValidationDocument{
		Collection: "java-rules",
		Standards: []assemble.Standard{
			{Name: "Legacy - Naming", Rules: []convert.Rule{{Name: "Alpha"}}},
			{Name: "Legacy - Style", Rules: []convert.Rule{{Name: "Gamma"}}},
		},
	}
	require.NoError(t, artifact.WriteValidation(filepath.Join(outDir, "java-rules.validation.yaml"), doc))
	writeExport(t, outDir, "broken.validation.yaml", "][ not yaml")

	paths, err := DiscoverValidations(outDir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	importer := &recordingImporter{failFor: map[string]bool{"Legacy - Style": true}}
	summary, err := ImportValidated(context.Background(), importer, paths)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Collections)
	assert.Equal(t, 1, summary.CollectionsFailed)
	assert.Equal(t, 1, summary.ImportsSucceeded)
	assert.Equal(t, 1, summary.ImportsFailed)
	assert.Equal(t, []string{"Legacy - Naming"}, importer.imported)
}
