// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

// NormalizeDependencyName returns the key used to match a dependency across
// applications. Package URLs are reduced to their versionless base
// (pkg:npm/lodash@4.17.21 -> pkg:npm/lodash); any other name is trimmed and
// lower-cased.
func NormalizeDependencyName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(name), "pkg:") {
		if parsed, err := packageurl.FromString(name); err == nil {
			base := packageurl.PackageURL{
				Type:      parsed.Type,
				Namespace: parsed.Namespace,
				Name:      parsed.Name,
				// Version, Qualifiers, Subpath intentionally omitted
			}
			return strings.ToLower(base.ToString())
		}
	}

	return strings.ToLower(name)
}

// DependencyEcosystem returns the package-url type of a dependency name
// (npm, pypi, maven...) or "" when the name is not a package URL.
func DependencyEcosystem(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(strings.ToLower(name), "pkg:") {
		return ""
	}
	parsed, err := packageurl.FromString(name)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Type)
}
