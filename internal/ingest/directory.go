package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
)

type DirStats struct {
	Scanned  uint32
	Matched  uint32
	Skipped  uint32
	Unhashed uint32
}

// ListDirectory returns the PDF documents directly inside root, sorted by name.
// Subdirectories are not descended into. Hidden entries are skipped when skipHidden is set.
// Only a failure to read root itself is returned as an error.
func ListDirectory(root string, skipHidden bool, logger *slog.Logger) ([]entity.Document, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("input directory is required")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, stats, fmt.Errorf("read dir %s: %w", root, err)
	}

	docs := make([]entity.Document, 0, len(entries))
	for _, d := range entries {
		stats.Scanned++
		name := d.Name()
		if d.IsDir() || (skipHidden && IsHidden(name)) {
			stats.Skipped++
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(name))
		if !AllowedExt(ext) {
			stats.Skipped++
			continue
		}
		stats.Matched++

		path := filepath.Join(root, name)
		doc := entity.Document{Name: name, SourcePath: path, FileExt: ext}
		if info, err := d.Info(); err == nil {
			doc.FileSize = info.Size()
		}
		if sum, err := hashFile(path); err != nil {
			// unreadable files still go through; extraction reports the failure
			stats.Unhashed++
			logger.Warn("ingest.hash_failed", "path", path, "error", err)
		} else {
			doc.HashHex = sum
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	logger.Info("ingest.listed", "root", root, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	return docs, stats, nil
}
