package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version == "" || i.Commit == "" || i.Date == "" {
		t.Errorf("Get() = %+v, want every field set", i)
	}
	if Get() != i {
		t.Error("Get should be stable across calls")
	}
}

func TestFormatting(t *testing.T) {
	i := Get()
	if !strings.Contains(String(), "version: "+i.Version) {
		t.Errorf("String() = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version "+i.Version) {
		t.Errorf("Template() = %q", Template())
	}
	if UserAgent() != "tagbubbles/"+i.Version {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
