package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywordResponse(t *testing.T) {
	keywords, err := parseKeywordResponse(`["alpha", "beta tier", "gamma"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta tier", "gamma"}, keywords)
}

func TestParseKeywordResponse_CodeFences(t *testing.T) {
	raw := "```json\n[\"alpha\", \"beta\"]\n```"
	keywords, err := parseKeywordResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, keywords)
}

func TestParseKeywordResponse_EmptyArray(t *testing.T) {
	keywords, err := parseKeywordResponse(`[]`)
	require.NoError(t, err)
	require.NotNil(t, keywords)
	assert.Empty(t, keywords)
}

func TestParseKeywordResponse_NullBecomesEmpty(t *testing.T) {
	keywords, err := parseKeywordResponse(`null`)
	require.NoError(t, err)
	require.NotNil(t, keywords)
	assert.Empty(t, keywords)
}

func TestParseKeywordResponse_WrongShape(t *testing.T) {
	cases := []string{
		`{"keywords": ["a"]}`,
		`"just a string"`,
		`[1, 2, 3]`,
		`not json at all`,
	}
	for _, raw := range cases {
		_, err := parseKeywordResponse(raw)
		assert.Error(t, err, raw)
	}
}
