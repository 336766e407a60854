package manifest

import (
	"reflect"
	"strings"
	"testing"
)

const demoManifest = `# Core system
Flask==2.3.3
requests==2.31.0
python-dotenv==1.0.0
gunicorn==21.2.0

# Demo interface
streamlit

# Visualization
plotly
pandas
numpy
altair

# Date/time handling
pytz
`

func TestParsePinned(t *testing.T) {
	m, err := Parse(strings.NewReader("Flask==2.3.3\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Requirements) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Requirements))
	}
	r := m.Requirements[0]
	if r.Name != "Flask" || r.Version != "2.3.3" {
		t.Fatalf("unexpected requirement %+v", r)
	}
}

func TestParseUnpinned(t *testing.T) {
	m, err := Parse(strings.NewReader("streamlit\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := m.Requirements[0]
	if r.Name != "streamlit" || r.Version != "" {
		t.Fatalf("unexpected requirement %+v", r)
	}
}

func TestParseCommentsAndBlanks(t *testing.T) {
	m, err := Parse(strings.NewReader("# just a comment\n\n#another\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Requirements) != 0 {
		t.Fatalf("expected no entries, got %d", len(m.Requirements))
	}
}

func TestParseDemoManifest(t *testing.T) {
	m, err := Parse(strings.NewReader(demoManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{
		"Flask", "requests", "python-dotenv", "gunicorn",
		"streamlit", "plotly", "pandas", "numpy", "altair", "pytz",
	}
	if !reflect.DeepEqual(m.Names(), want) {
		t.Fatalf("unexpected names %v", m.Names())
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := Parse(strings.NewReader(demoManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := Parse(strings.NewReader(demoManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-parse produced a different sequence")
	}
}

func TestParseInvalidPin(t *testing.T) {
	if _, err := Parse(strings.NewReader("Flask==\n")); err == nil {
		t.Fatalf("expected error for empty version pin")
	}
}

func TestRequirementString(t *testing.T) {
	if got := (Requirement{Name: "Flask", Version: "2.3.3"}).String(); got != "Flask==2.3.3" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (Requirement{Name: "streamlit"}).String(); got != "streamlit" {
		t.Fatalf("unexpected %q", got)
	}
}
