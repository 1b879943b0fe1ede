package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Voskan/syncframe/pkg/capture"
)

func TestFileExporter_WritesOneFilePerFrame(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewFileExporter[int64](FileConfig{Dir: dir, Prefix: "test"})
	if err != nil {
		t.Fatalf("NewFileExporter: %v", err)
	}

	frame := capture.Frame[int64]{State: capture.Primed, Range: capture.CaptureRange[int64]{Lower: 0, Upper: 10}}
	if err := exp.Export(frame); err != nil {
		t.Fatalf("Export: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one exported file, got %d", len(entries))
	}
	if filepath.Ext(entries[0].Name()) != ".json" {
		t.Fatalf("expected a .json file, got %s", entries[0].Name())
	}
}
