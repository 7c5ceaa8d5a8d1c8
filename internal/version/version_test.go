package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Fatalf("info=%+v", info)
	}
	if !strings.HasPrefix(info.String(), "projkit "+Version) {
		t.Fatalf("string=%q", info.String())
	}
}
