package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_EmptyInputFails(t *testing.T) {
	t.Parallel()

	_, err := Resolve("")
	require.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = Resolve("   ")
	require.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestResolve_MatchOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  ID
	}{
		{"alias before search", "golang", Go},
		{"alias is case-insensitive", "GoLang", Go},
		{"exact identifier", "java", Java},
		{"identifier case-insensitive", "JAVA", Java},
		{"display name", "C#", CSharp},
		{"display name case-insensitive", "javascript", JavaScript},
		{"extension", "kts", Kotlin},
		{"extension case-insensitive", "PY", Python},
		{"yml alias", "yml", YAML},
		{"trims whitespace", "  rb  ", Ruby},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_UnrecognizedFallsBackToText(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"cobol85", "zz", "not-a-language", ".weird"} {
		got, err := Resolve(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, Text, got, "input %q", input)
	}
}

func TestCommentStyleFor(t *testing.T) {
	t.Parallel()

	goStyle := CommentStyleFor(Go)
	require.NotNil(t, goStyle)
	assert.Equal(t, "//", goStyle.Prefix)
	assert.Empty(t, goStyle.Suffix)

	htmlStyle := CommentStyleFor(HTML)
	require.NotNil(t, htmlStyle)
	assert.Equal(t, "<!--", htmlStyle.Prefix)
	assert.Equal(t, "-->", htmlStyle.Suffix)

	assert.Nil(t, CommentStyleFor(JSON), "data-only format has no comment syntax")
	assert.Nil(t, CommentStyleFor(Unknown))
}

func TestInSchemaFamily(t *testing.T) {
	t.Parallel()

	assert.True(t, InSchemaFamily("json"))
	assert.True(t, InSchemaFamily("YAML"))
	assert.True(t, InSchemaFamily(" yml "))
	assert.False(t, InSchemaFamily("go"))
	assert.False(t, InSchemaFamily(""))
}
