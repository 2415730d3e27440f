package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(tmpl, "commit: "+Commit) {
		t.Errorf("Template() should include the commit: %q", tmpl)
	}
}
