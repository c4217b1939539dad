package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("UTIL_TEST_STR", "value")
	t.Setenv("UTIL_TEST_BOOL", "false")
	t.Setenv("UTIL_TEST_INT", "42")
	t.Setenv("UTIL_TEST_BAD_INT", "forty")

	assert.Equal(t, "value", GetEnvDefault("UTIL_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnvDefault("UTIL_TEST_MISSING", "x"))
	assert.False(t, GetEnvBool("UTIL_TEST_BOOL", true))
	assert.True(t, GetEnvBool("UTIL_TEST_MISSING", true))
	assert.Equal(t, 42, GetEnvInt("UTIL_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("UTIL_TEST_BAD_INT", 1))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAndTrim(" a, ,b ,"))
	assert.Empty(t, SplitAndTrim(""))
}

func TestNormalizeRecipients(t *testing.T) {
	got := NormalizeRecipients([]string{" owner@corp.io", "", "Owner@corp.io", "lead@corp.io "})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"owner@corp.io", "lead@corp.io"}, got)
	assert.NotNil(t, NormalizeRecipients(nil))
}

func TestNormalizeDependencyName(t *testing.T) {
	assert.Equal(t, "pkg:npm/lodash", NormalizeDependencyName("pkg:npm/lodash@4.17.21"))
	assert.Equal(t, "pkg:maven/org.apache/log4j", NormalizeDependencyName("pkg:maven/org.apache/log4j@2.17.0"))
	assert.Equal(t, "openssl", NormalizeDependencyName("  OpenSSL "))
	assert.Equal(t, "", NormalizeDependencyName("   "))
}

func TestDependencyEcosystem(t *testing.T) {
	assert.Equal(t, "npm", DependencyEcosystem("pkg:npm/lodash@4.17.21"))
	assert.Equal(t, "pypi", DependencyEcosystem("pkg:pypi/django@4.2"))
	assert.Equal(t, "", DependencyEcosystem("Java"))
}

func TestParseSemanticVersion(t *testing.T) {
	v := ParseSemanticVersion("v1.2.3")
	require.NotNil(t, v.Major)
	assert.Equal(t, 1, *v.Major)
	assert.Equal(t, 2, *v.Minor)
	assert.Equal(t, 3, *v.Patch)

	v = ParseSemanticVersion("")
	assert.Nil(t, v.Major)

	v = ParseSemanticVersion("12.2.1.4")
	require.NotNil(t, v.Major)
	assert.Equal(t, 12, *v.Major)
	assert.Equal(t, 2, *v.Minor)
	assert.Equal(t, 1, *v.Patch)
}

func TestParseDependencyVersion(t *testing.T) {
	v, err := ParseDependencyVersion("npm", "4.17.21")
	require.NoError(t, err)
	assert.Equal(t, 4, *v.Major)
	assert.Equal(t, 21, *v.Patch)

	_, err = ParseDependencyVersion("npm", "not a version")
	assert.Error(t, err)

	v, err = ParseDependencyVersion("pypi", "4.2")
	require.NoError(t, err)
	assert.Equal(t, 4, *v.Major)
	assert.Equal(t, 2, *v.Minor)

	_, err = ParseDependencyVersion("pypi", "four")
	assert.Error(t, err)

	v, err = ParseDependencyVersion("", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, *v.Major)
}
