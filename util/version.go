// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ParsedVersion holds parsed semantic version components
type ParsedVersion struct {
	Major *int
	Minor *int
	Patch *int
}

// ParseSemanticVersion parses a version string into numeric components
// Returns nil values for components that cannot be parsed
func ParseSemanticVersion(version string) *ParsedVersion {
	version = strings.TrimSpace(version)
	if version == "" {
		return &ParsedVersion{}
	}

	// Strip "v" and "go" prefixes (v1.2.3, go1.22.2)
	cleanVersion := strings.TrimPrefix(strings.TrimPrefix(version, "go"), "v")

	if v, err := semver.NewVersion(cleanVersion); err == nil {
		major := int(v.Major())
		minor := int(v.Minor())
		patch := int(v.Patch())

		return &ParsedVersion{
			Major: &major,
			Minor: &minor,
			Patch: &patch,
		}
	}

	// Fallback for vendor numbering like "12.2" or "2019"
	parts := strings.Split(cleanVersion, ".")
	result := &ParsedVersion{}

	if len(parts) >= 1 {
		if major, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			result.Major = &major
		}
	}
	if len(parts) >= 2 {
		if minor, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			result.Minor = &minor
		}
	}
	if len(parts) >= 3 {
		// Remove any pre-release or build metadata
		fields := strings.FieldsFunc(parts[2], func(r rune) bool {
			return r == '-' || r == '+'
		})
		if len(fields) > 0 {
			if patch, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
				result.Patch = &patch
			}
		}
	}

	return result
}

// ParseDependencyVersion validates a dependency version with the parser of its
// ecosystem (npm, pypi) and returns its numeric components. Other ecosystems
// go through ParseSemanticVersion and never fail.
func ParseDependencyVersion(ecosystem, version string) (*ParsedVersion, error) {
	switch strings.ToLower(ecosystem) {
	case "npm":
		v, err := npm.NewVersion(version)
		if err != nil {
			return nil, fmt.Errorf("invalid npm version %q: %w", version, err)
		}
		return ParseSemanticVersion(v.String()), nil
	case "pypi":
		v, err := pep440.Parse(version)
		if err != nil {
			return nil, fmt.Errorf("invalid PEP 440 version %q: %w", version, err)
		}
		return ParseSemanticVersion(v.String()), nil
	}
	return ParseSemanticVersion(version), nil
}
