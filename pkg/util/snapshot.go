package util

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	"go.uber.org/zap"
)

// SnapshotReader reads catalog snapshot files through a read-only memory
// mapping, falling back to os.ReadFile when mmap is unavailable.
//
// The mapped bytes are only valid inside the callback passed to Read; the
// mapping is released before Read returns.
type SnapshotReader struct {
	logger *zap.Logger

	reads        atomic.Int64
	bytesRead    atomic.Int64
	mmapFailures atomic.Int64
}

// SnapshotReaderStats reports reader activity.
type SnapshotReaderStats struct {
	Reads        int64
	BytesRead    int64
	MmapFailures int64
}

// NewSnapshotReader creates a SnapshotReader. A nil logger discards output.
func NewSnapshotReader(logger *zap.Logger) *SnapshotReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotReader{logger: logger.Named("snapshot-reader")}
}

// Read maps path and passes its contents to fn. It returns the file size.
// Open errors wrap the os error, so callers can test for fs.ErrNotExist.
func (r *SnapshotReader) Read(path string, fn func(data []byte) error) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	size := stat.Size()
	r.reads.Add(1)
	r.bytesRead.Add(size)

	// Empty files can't be mapped.
	if size == 0 {
		return 0, fn(nil)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		r.mmapFailures.Add(1)
		r.logger.Warn("mmap failed, using fallback",
			zap.String("file", path),
			zap.Int64("size", size),
			zap.Error(err))

		buf, readErr := os.ReadFile(path)
		if readErr != nil {
			return 0, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return size, fn(buf)
	}
	defer func() {
		if err := data.Unmap(); err != nil {
			r.logger.Warn("munmap failed", zap.String("file", path), zap.Error(err))
		}
	}()

	return size, fn(data)
}

// Stats returns reader counters.
func (r *SnapshotReader) Stats() SnapshotReaderStats {
	return SnapshotReaderStats{
		Reads:        r.reads.Load(),
		BytesRead:    r.bytesRead.Load(),
		MmapFailures: r.mmapFailures.Load(),
	}
}
