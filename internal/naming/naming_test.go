package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNamespacedName(t *testing.T) {
	assert.Equal(t, "example_plugin-example_tool", CreateNamespacedName("example_plugin", "example_tool"))
	assert.Equal(t, "example_plugin-invalid-tool", CreateNamespacedName("example_plugin", "invalid-tool"))
	assert.Equal(t, "test_plugin-", CreateNamespacedName("test_plugin", ""))
	assert.Equal(t, "test_plugin-invalid-tool-name", CreateNamespacedName("test_plugin", "invalid-tool-name"))
}

func TestCreateNamespacedNameUnicode(t *testing.T) {
	result := CreateNamespacedName("test_plugin", "тест_工具")
	assert.Equal(t, "test_plugin-тест_工具", result)
}

func TestCreateNamespacedNameVeryLong(t *testing.T) {
	veryLong := strings.Repeat("a", 1000)
	namespaced := CreateNamespacedName("plugin", veryLong)

	plugin, inner, err := ParseNamespacedName(namespaced)
	require.NoError(t, err)
	assert.Equal(t, "plugin", plugin)
	assert.Len(t, inner, 1000)
}

func TestParseNamespacedName(t *testing.T) {
	plugin, inner, err := ParseNamespacedName("example_plugin-example_tool")
	require.NoError(t, err)
	assert.Equal(t, "example_plugin", plugin)
	assert.Equal(t, "example_tool", inner)
}

func TestParseNamespacedNameMultipleSeparators(t *testing.T) {
	plugin, inner, err := ParseNamespacedName("plugin-tool-extra")
	require.NoError(t, err)
	assert.Equal(t, "plugin", plugin)
	assert.Equal(t, "tool-extra", inner)
}

func TestParseNamespacedNameNoSeparator(t *testing.T) {
	_, _, err := ParseNamespacedName("invalid_tool_name")
	assert.Error(t, err)
}

func TestParseNamespacedNameEmptyString(t *testing.T) {
	_, _, err := ParseNamespacedName("")
	assert.Error(t, err)
}

func TestParseNamespacedNameOnlySeparator(t *testing.T) {
	plugin, inner, err := ParseNamespacedName("-")
	require.NoError(t, err)
	assert.Empty(t, plugin)
	assert.Empty(t, inner)
}

func TestParseNamespacedNameEmptyParts(t *testing.T) {
	plugin, inner, err := ParseNamespacedName("-tool")
	require.NoError(t, err)
	assert.Empty(t, plugin)
	assert.Equal(t, "tool", inner)
}

func TestRoundTripName(t *testing.T) {
	namespaced := CreateNamespacedName("test_plugin", "my_tool")
	plugin, inner, err := ParseNamespacedName(namespaced)
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, "my_tool", inner)
}

func TestNamespacedNameFormatInvariants(t *testing.T) {
	namespaced := CreateNamespacedName("test_plugin", "test_tool")

	assert.GreaterOrEqual(t, strings.Count(namespaced, Separator), 1)
	assert.True(t, strings.HasPrefix(namespaced, "test_plugin"))
	assert.True(t, strings.HasSuffix(namespaced, "test_tool"))
	assert.Equal(t, "test_plugin-test_tool", namespaced)
}

func TestCreateNamespacedURIBasic(t *testing.T) {
	result, err := CreateNamespacedURI("test_plugin", "http://example.com/api/endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/test_plugin/api/endpoint", result)
}

func TestCreateNamespacedURIRootPath(t *testing.T) {
	result, err := CreateNamespacedURI("my_plugin", "http://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/my_plugin/", result)
}

func TestCreateNamespacedURINoPath(t *testing.T) {
	result, err := CreateNamespacedURI("my_plugin", "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/my_plugin/", result)
}

func TestCreateNamespacedURIWithQueryString(t *testing.T) {
	result, err := CreateNamespacedURI("test_plugin", "http://example.com/api/endpoint?key=value&foo=bar")
	require.NoError(t, err)
	assert.Contains(t, result, "test_plugin/api/endpoint")
	assert.Contains(t, result, "key=value")
	assert.Contains(t, result, "foo=bar")
}

func TestCreateNamespacedURIWithFragment(t *testing.T) {
	result, err := CreateNamespacedURI("test_plugin", "http://example.com/api/endpoint#section")
	require.NoError(t, err)
	assert.Contains(t, result, "test_plugin/api/endpoint")
	assert.Contains(t, result, "#section")
}

func TestCreateNamespacedURIWithPort(t *testing.T) {
	result, err := CreateNamespacedURI("test_plugin", "http://example.com:8080/api/endpoint")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080/test_plugin/api/endpoint", result)
}

func TestCreateNamespacedURIDeepPath(t *testing.T) {
	result, err := CreateNamespacedURI("test_plugin", "http://example.com/v1/api/v2/endpoint/deep")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/test_plugin/v1/api/v2/endpoint/deep", result)
}

func TestCreateNamespacedURIInvalidURL(t *testing.T) {
	// net/url.Parse is far more permissive than Rust's url crate about
	// what counts as a valid relative reference; invalid percent-encoding
	// is one of the few things it still rejects.
	_, err := CreateNamespacedURI("test_plugin", "http://example.com/%zz")
	assert.Error(t, err)
}

func TestParseNamespacedURIBasic(t *testing.T) {
	plugin, inner, err := ParseNamespacedURI("http://example.com/test_plugin/api/endpoint")
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, "http://example.com/api/endpoint", inner)
}

func TestParseNamespacedURIRootPath(t *testing.T) {
	plugin, inner, err := ParseNamespacedURI("http://example.com/my_plugin/")
	require.NoError(t, err)
	assert.Equal(t, "my_plugin", plugin)
	assert.Equal(t, "http://example.com/", inner)
}

func TestParseNamespacedURIWithQueryString(t *testing.T) {
	plugin, inner, err := ParseNamespacedURI("http://example.com/test_plugin/api/endpoint?key=value")
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Contains(t, inner, "api/endpoint")
	assert.Contains(t, inner, "key=value")
}

func TestParseNamespacedURIWithPort(t *testing.T) {
	plugin, inner, err := ParseNamespacedURI("http://example.com:8080/test_plugin/api/endpoint")
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, "http://example.com:8080/api/endpoint", inner)
}

func TestParseNamespacedURIInvalidURL(t *testing.T) {
	_, _, err := ParseNamespacedURI("http://example.com/%zz")
	assert.Error(t, err)
}

func TestParseNamespacedURINoPath(t *testing.T) {
	_, _, err := ParseNamespacedURI("http://example.com")
	assert.Error(t, err)
}

func TestParseNamespacedURIOnlyPlugin(t *testing.T) {
	plugin, inner, err := ParseNamespacedURI("http://example.com/test_plugin")
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, "http://example.com/", inner)
}

func TestRoundTripURI(t *testing.T) {
	original := "http://example.com/api/endpoint"
	namespaced, err := CreateNamespacedURI("test_plugin", original)
	require.NoError(t, err)

	plugin, inner, err := ParseNamespacedURI(namespaced)
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, original, inner)
}

func TestRoundTripURIWithQueryAndFragment(t *testing.T) {
	original := "http://example.com/api/endpoint?key=value#section"
	namespaced, err := CreateNamespacedURI("test_plugin", original)
	require.NoError(t, err)

	plugin, inner, err := ParseNamespacedURI(namespaced)
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, original, inner)
}

func TestURIWithSpecialCharactersInPath(t *testing.T) {
	original := "http://example.com/api/resource-123_test"
	namespaced, err := CreateNamespacedURI("test_plugin", original)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/test_plugin/api/resource-123_test", namespaced)

	plugin, inner, err := ParseNamespacedURI(namespaced)
	require.NoError(t, err)
	assert.Equal(t, "test_plugin", plugin)
	assert.Equal(t, original, inner)
}
