package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLogPathUnderWorkingDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	path, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(path) != defaultLogFilename {
		t.Fatalf("expected default filename %s, got %s", defaultLogFilename, filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != defaultLogDirName {
		t.Fatalf("expected %s directory, got %s", defaultLogDirName, filepath.Dir(path))
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}
}

func TestReleaseModeWritesJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "catalog.log"})
	log.Info("import_batch_finished")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "catalog.log"))
	if err != nil {
		t.Fatalf("read log file failed: %v", err)
	}
	if !strings.Contains(string(content), "import_batch_finished") {
		t.Fatalf("message missing from log file: %s", string(content))
	}
	if !strings.Contains(string(content), `"level"`) {
		t.Fatalf("expected JSON encoded entry, got: %s", string(content))
	}
}

func TestDebugModeStaysOnStdout(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "catalog.log"})
	log.Debug("debug-entry")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "catalog.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode must not create a log file")
	}
}

func TestHelpersWorkWithoutInit(t *testing.T) {
	saved := L
	L = nil
	t.Cleanup(func() { L = saved })

	if Z() == nil {
		t.Fatalf("Z returned nil without Init")
	}
	if S() == nil {
		t.Fatalf("S returned nil without Init")
	}
	// Must not panic.
	Infow("fallback_logger_used", "key", "value")
}
