// Package export writes captured frames to the local filesystem for offline
// analysis, adapted from internal/agent/exporter/file_exporter.go's
// flamegraph-snapshot writer. The filename pattern follows
//
//	<prefix>-20060102T150405.000.json[.gz]
//
// with a UTC timestamp by default.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Voskan/syncframe/pkg/capture"
)

// FileConfig controls FileExporter behaviour.
type FileConfig struct {
	Dir       string         // destination directory (created if missing)
	Prefix    string         // filename prefix (default "frame")
	Compress  bool           // gzip output
	Timezone  *time.Location // nil => UTC
	FlushSync bool           // fsync file after write
	Perm      os.FileMode    // file mode (default 0644)
}

// FileExporter writes each Primed frame it is given to its own file.
type FileExporter[S capture.Numeric] struct {
	cfg FileConfig
}

// NewFileExporter validates cfg, creates Dir if needed, and returns an
// exporter.
func NewFileExporter[S capture.Numeric](cfg FileConfig) (*FileExporter[S], error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "frame"
	}
	if cfg.Perm == 0 {
		cfg.Perm = 0o644
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &FileExporter[S]{cfg: cfg}, nil
}

// Export writes frame to a new file, named after the current time. It
// blocks until the write completes.
func (e *FileExporter[S]) Export(frame capture.Frame[S]) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	ts := time.Now().In(e.cfg.Timezone).Format("20060102T150405.000")
	fname := fmt.Sprintf("%s-%s.json", e.cfg.Prefix, ts)
	if e.cfg.Compress {
		fname += ".gz"
	}
	path := filepath.Join(e.cfg.Dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, e.cfg.Perm)
	if err != nil {
		return err
	}
	defer f.Close()

	if e.cfg.Compress {
		gw := gzip.NewWriter(f)
		if _, err := gw.Write(data); err != nil {
			_ = gw.Close()
			return err
		}
		if err := gw.Close(); err != nil {
			return err
		}
	} else if _, err := f.Write(data); err != nil {
		return err
	}
	if e.cfg.FlushSync {
		_ = f.Sync()
	}
	return nil
}
