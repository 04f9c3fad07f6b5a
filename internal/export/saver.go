package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Kind identifies which record set an export covers.
type Kind string

const (
	KindRecords  Kind = "records"
	KindExpenses Kind = "expenses"
)

// Saver is the host side of the save flow: it receives a filename and the
// CSV bytes, and reports where the data ended up. A cancellation by the
// user never reaches the saver; the caller simply does not invoke it.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) (dest string, err error)
}

// DirSaver writes exports into a fixed directory.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	dest := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return dest, nil
}

// SuggestedFilename builds the default filename offered for an export.
func SuggestedFilename(kind Kind, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", kind, now.Format("20060102-150405"))
}
