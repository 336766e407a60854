package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Requirement is one declared package dependency, optionally pinned.
type Requirement struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"` // empty when unpinned
}

// String renders the requirement back in manifest form.
func (r Requirement) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "==" + r.Version
}

// Manifest is an ordered list of requirements parsed from a pip-style
// requirements file. Comment and blank lines carry no entries.
type Manifest struct {
	Requirements []Requirement `json:"requirements"`
}

// Names returns the declared package names in file order.
func (m *Manifest) Names() []string {
	out := make([]string, len(m.Requirements))
	for i, r := range m.Requirements {
		out[i] = r.Name
	}
	return out
}

// Parse reads a requirements manifest. Lines are either blank, comments
// prefixed with '#', or entries of the form <name>[==<version>].
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		req, ok, err := parseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			m.Requirements = append(m.Requirements, req)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

// ParseFile parses a requirements manifest from disk.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(raw string) (Requirement, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "#") {
		return Requirement{}, false, nil
	}
	name, version, pinned := strings.Cut(s, "==")
	name = strings.TrimSpace(name)
	if name == "" {
		return Requirement{}, false, fmt.Errorf("missing package name in %q", raw)
	}
	if strings.ContainsAny(name, " \t") {
		return Requirement{}, false, fmt.Errorf("invalid package name %q", name)
	}
	if pinned {
		version = strings.TrimSpace(version)
		if version == "" {
			return Requirement{}, false, fmt.Errorf("empty version pin in %q", raw)
		}
	}
	return Requirement{Name: name, Version: version}, true, nil
}
