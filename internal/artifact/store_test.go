package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stdforge/stdforge/internal/assemble"
	"github.com/stdforge/stdforge/internal/cluster"
	"github.com/stdforge/stdforge/internal/convert"
	"github.com/stdforge/stdforge/internal/lang"
)

func TestMappingRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	mapping := cluster.Mapping{Groups: []cluster.Group{
		{Name: "Naming", Description: "naming rules", Members: []string{"Alpha", "Beta"}},
		{Name: "Uncategorized", Description: "leftovers", Members: []string{"Gamma"}},
	}}

	require.NoError(t, WriteMapping(path, mapping))

	got, err := ReadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, mapping, got)

	// The document stays reviewable: plain field names, no type tags.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "name: Naming")
	assert.Contains(t, string(raw), "members:")
}

func TestValidationRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "validation.yaml")
	doc := ValidationDocument{
		Collection: "legacy-java",
		Standards: []assemble.Standard{
			{
				Name:        "Legacy Java - Naming",
				Description: "1. Alpha\n   First.",
				Rules: []convert.Rule{
					{
						Name:     "Alpha",
						Positive: []convert.CodeExample{{Code: "x := 1", Language: lang.Go}},
						Detection: &convert.DetectionProgram{
							Code:     "match x",
							Language: lang.Python,
							Mode:     convert.DetectionModeSuggestion,
						},
					},
				},
			},
		},
	}

	require.NoError(t, WriteValidation(path, doc))

	got, err := ReadValidation(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestReadMapping_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadMapping(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
