package naming

import (
	"fmt"
	"strings"
)

// InvalidNameError is returned when a graph name is empty or otherwise
// cannot be resolved.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid graph name %q: %s", e.Name, e.Reason)
}

// QualifyNodeName splits a raw node name (as given on the command line
// or in code) into its namespace and bare name: "/ns/talker" ->
// ("/ns", "talker"); "talker" -> ("/", "talker").
func QualifyNodeName(raw string) (namespace, name string, err error) {
	if raw == "" {
		return "", "", &InvalidNameError{Name: raw, Reason: "node name is empty"}
	}
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		ns := raw[:i]
		if ns == "" {
			ns = "/"
		}
		return ns, raw[i+1:], nil
	}
	return "/", raw, nil
}

// Resolver resolves relative, private ("~"), and global ("/"-rooted)
// graph names against a node's namespace and name, applying any
// command-line remappings on top of the fully resolved form.
type Resolver struct {
	namespace string
	nodeName  string
	remap     Map
}

// NewResolver returns a Resolver for a node running in namespace under
// nodeName, applying remap's "key:=value" name substitutions.
func NewResolver(namespace, nodeName string, remap Map) *Resolver {
	return &Resolver{namespace: namespace, nodeName: nodeName, remap: remap}
}

// Resolve expands name to its fully qualified global form and applies
// any matching remapping.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", &InvalidNameError{Name: name, Reason: "name is empty"}
	}
	resolved, err := r.qualify(name)
	if err != nil {
		return "", err
	}
	if mapped, ok := r.remap[resolved]; ok {
		return r.qualify(mapped)
	}
	if mapped, ok := r.remap[name]; ok {
		return r.qualify(mapped)
	}
	return resolved, nil
}

func (r *Resolver) qualify(name string) (string, error) {
	switch {
	case strings.HasPrefix(name, "/"):
		return name, nil
	case strings.HasPrefix(name, "~"):
		return join(join(r.namespace, r.nodeName), name[1:]), nil
	default:
		return join(r.namespace, name), nil
	}
}

// join concatenates a namespace and a relative name with exactly one
// "/" between them.
func join(namespace, name string) string {
	ns := strings.TrimSuffix(namespace, "/")
	name = strings.TrimPrefix(name, "/")
	if ns == "" {
		return "/" + name
	}
	return ns + "/" + name
}
