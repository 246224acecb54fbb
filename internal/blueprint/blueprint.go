// SPDX-License-Identifier: MPL-2.0

// Package blueprint determines the active blueprints of an invocation from
// the command line and the persisted project configuration.
package blueprint

import (
	"strings"
)

const (
	// PackagePrefix is the conventional package name prefix of blueprints.
	PackagePrefix = "generator-jhipster-"

	generatorPrefix = "generator-"
	basePackage     = "generator-jhipster"
)

// Descriptor identifies one active blueprint.
type Descriptor struct {
	Name string `json:"name" mapstructure:"name" validate:"required,max=214"`
	// Version is empty when neither source declared one.
	Version string `json:"version,omitempty" mapstructure:"version" validate:"omitempty,max=128"`
	// PackagePath pins the package location and skips lookup when set.
	PackagePath string `json:"packagePath,omitempty" mapstructure:"packagePath"`
}

// NormalizeName expands a short blueprint name to its package name:
// "vue" becomes "generator-jhipster-vue" and "@acme/x" becomes
// "@acme/generator-jhipster-x". Names already carrying the prefix are kept.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	org, pkg := "", name
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, "/"); i > 0 {
			org, pkg = name[:i+1], name[i+1:]
		}
	}
	if !strings.HasPrefix(pkg, basePackage) {
		pkg = PackagePrefix + pkg
	}
	return org + pkg
}

// Scope returns the namespace scope of the blueprint's generators: the
// package name without its "generator-" prefix.
func (d Descriptor) Scope() string {
	org, pkg := "", d.Name
	if strings.HasPrefix(d.Name, "@") {
		if i := strings.Index(d.Name, "/"); i > 0 {
			org, pkg = d.Name[:i+1], d.Name[i+1:]
		}
	}
	return org + strings.TrimPrefix(pkg, generatorPrefix)
}

// Spec returns the install specification "name@version", or the bare name.
func (d Descriptor) Spec() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}
