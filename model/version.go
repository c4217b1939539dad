// Package model - Version and Dependency define the expiry-bearing items tracked per application.
package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ortelius/obsolescence-backend/util"
)

// Version is a deployed version of an application.
type Version struct {
	Key                string            `json:"_key,omitempty"`
	ApplicationKey     string            `json:"application_key"`
	Number             string            `json:"number"`
	VersionMajor       *int              `json:"version_major,omitempty"`
	VersionMinor       *int              `json:"version_minor,omitempty"`
	VersionPatch       *int              `json:"version_patch,omitempty"`
	EndOfSupport       *civil.Date       `json:"end_of_support"`
	EndOfContract      *civil.Date       `json:"end_of_contract"`
	VendorEndOfSupport *civil.Date       `json:"vendor_eos"`
	RemediationStatus  RemediationStatus `json:"remediation_status"`
	Comment            string            `json:"comment,omitempty"`
	ObjType            string            `json:"objtype,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewVersion creates a new Version with default values.
func NewVersion(applicationKey, number string) *Version {
	now := time.Now().UTC()
	return &Version{
		ApplicationKey:    applicationKey,
		Number:            number,
		RemediationStatus: RemediationNotPlanned,
		ObjType:           "Version",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ParseAndSetVersion parses the version number into semver components.
func (v *Version) ParseAndSetVersion() {
	v.Number = strings.TrimSpace(v.Number)
	if v.Number == "" {
		return
	}

	parsed := util.ParseSemanticVersion(v.Number)
	v.VersionMajor = parsed.Major
	v.VersionMinor = parsed.Minor
	v.VersionPatch = parsed.Patch
}

// Dependency is a component an application relies on (runtime, library, OS...).
type Dependency struct {
	Key            string             `json:"_key,omitempty"`
	ApplicationKey string             `json:"application_key"`
	Category       DependencyCategory `json:"category"`
	Name           string             `json:"name"`
	Version        string             `json:"version,omitempty"`
	VersionMajor   *int               `json:"version_major,omitempty"`
	VersionMinor   *int               `json:"version_minor,omitempty"`
	VersionPatch   *int               `json:"version_patch,omitempty"`
	Vendor         string             `json:"vendor,omitempty"`
	EndOfSupport   *civil.Date        `json:"end_of_support"`
	NormalizedName string             `json:"normalized_name,omitempty"`
	ObjType        string             `json:"objtype,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewDependency creates a new Dependency with default values.
func NewDependency(applicationKey, name string, category DependencyCategory) *Dependency {
	now := time.Now().UTC()
	return &Dependency{
		ApplicationKey: applicationKey,
		Name:           name,
		Category:       category,
		ObjType:        "Dependency",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NormalizeName fills NormalizedName from Name when the caller did not provide one.
func (d *Dependency) NormalizeName() {
	if strings.TrimSpace(d.NormalizedName) != "" {
		d.NormalizedName = strings.ToLower(strings.TrimSpace(d.NormalizedName))
		return
	}
	d.NormalizedName = util.NormalizeDependencyName(d.Name)
}

// ParseAndSetVersion validates the dependency version with the parser of its
// ecosystem and stores the numeric components.
func (d *Dependency) ParseAndSetVersion() error {
	d.Version = strings.TrimSpace(d.Version)
	if d.Version == "" {
		return nil
	}

	parsed, err := util.ParseDependencyVersion(util.DependencyEcosystem(d.Name), d.Version)
	if err != nil {
		return err
	}
	d.VersionMajor = parsed.Major
	d.VersionMinor = parsed.Minor
	d.VersionPatch = parsed.Patch
	return nil
}

// VersionItem is a version with its owning application and project resolved.
type VersionItem struct {
	Version     Version     `json:"version"`
	Application Application `json:"application"`
	Project     *Project    `json:"project,omitempty"`
}

// DependencyItem is a dependency with its owning application and project resolved.
type DependencyItem struct {
	Dependency  Dependency  `json:"dependency"`
	Application Application `json:"application"`
	Project     *Project    `json:"project,omitempty"`
}
