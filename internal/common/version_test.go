package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadVersionFile_FillsDefaultsOnly(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "2026-01-01", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# release\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc1234\nbogus line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write version file: %v", err)
	}

	loadVersionFile(path)

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", Version)
	}
	if Build != "2026-01-01" {
		t.Errorf("Build = %q, ldflags value must win", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, want abc1234", GitCommit)
	}
	if got := GetFullVersion(); got != "1.2.3 (build: 2026-01-01, commit: abc1234)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}
