package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile_WritesReadableXML(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, testPartition(), fixedSource())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want directory %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "<CESOP") {
		t.Errorf("written file does not look like a CESOP document: %s", data)
	}
}

func TestWriteFile_RemovesPartialFileOnInvariantViolation(t *testing.T) {
	dir := t.TempDir()
	p := testPartition()
	p.Groups[0].Accounts = nil
	p.Groups[0].PayeePSPID = ""

	path, err := WriteFile(dir, p, fixedSource())
	if err == nil {
		t.Fatal("expected an error from the invariant violation")
	}
	if path != "" {
		t.Errorf("path = %q, want empty on error", path)
	}
	wantPath := filepath.Join(dir, p.FileName())
	if _, statErr := os.Stat(wantPath); !os.IsNotExist(statErr) {
		t.Errorf("partial file %q should not exist, stat err = %v", wantPath, statErr)
	}
}
