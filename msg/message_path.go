package msg

import (
	"regexp"
	"strings"
)

// packageNameRE enforces REP 144: lowercase-alpha start, lowercase
// alphanumeric/underscore body, length >= 2, no consecutive underscores.
var packageNameRE = regexp.MustCompile(`^[a-z][a-z0-9_]+$`)

func isValidPackageName(pkg string) bool {
	return packageNameRE.MatchString(pkg) && !strings.Contains(pkg, "__")
}

// Path identifies a message by its owning package and its own name, e.g.
// ("std_msgs", "String").
type Path struct {
	pkg  string
	name string
}

// NewPath validates package against REP 144 and returns the combined path.
func NewPath(pkg, name string) (Path, error) {
	if !isValidPackageName(pkg) {
		return Path{}, &InvalidMessagePathError{
			Name:   pkg + "/" + name,
			Reason: "package name needs to follow REP 144 rules (https://www.ros.org/reps/rep-0144.html)",
		}
	}
	return Path{pkg: pkg, name: name}, nil
}

// ParsePath splits a combined "package/name" string and validates it.
func ParsePath(combined string) (Path, error) {
	parts := strings.SplitN(combined, "/", 2)
	if len(parts) != 2 {
		return Path{}, &InvalidMessagePathError{
			Name:   combined,
			Reason: "string needs to be in package/name format",
		}
	}
	return NewPath(parts[0], parts[1])
}

// Package returns the message's owning package.
func (p Path) Package() string { return p.pkg }

// Name returns the message's own name within its package.
func (p Path) Name() string { return p.name }

// String renders the canonical "package/name" form.
func (p Path) String() string { return p.pkg + "/" + p.name }

// WithName returns a new Path in the same package under a different name,
// used to derive the synthesized <Name>Req / <Name>Res service messages.
func (p Path) WithName(name string) Path { return Path{pkg: p.pkg, name: name} }
