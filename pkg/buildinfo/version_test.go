package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	info := Get()
	if info.Version != "v1.2.3" {
		t.Errorf("Get().Version = %q, want v1.2.3", info.Version)
	}
	if info.Commit != Commit || info.Date != Date {
		t.Errorf("Get() = %+v, want commit %q date %q", info, Commit, Date)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") {
		t.Errorf("Template() = %q, want cobra name placeholder", tmpl)
	}
	if !strings.Contains(tmpl, Commit) {
		t.Errorf("Template() = %q, missing commit", tmpl)
	}
	if !strings.Contains(String(), "version: "+Version) {
		t.Errorf("String() = %q, missing version", String())
	}
}
