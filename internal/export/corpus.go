package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mwi/internal/core"
)

// CorpusEntry is one file bundled into a corpus archive: a qualifying
// expression's readable text, named by expression id.
type CorpusEntry struct {
	ExpressionID int64
	Content      string
}

// ManifestEntry records one archive's contribution to a corpus export.
type ManifestEntry struct {
	Archive    string `json:"archive"`
	EntryCount int    `json:"entry_count"`
}

// Manifest is written alongside a corpus export — a supplement beyond
// spec.md's export contract, additive only, that lists every archive
// batch produced and how many entries it holds.
type Manifest struct {
	Land       string          `json:"land"`
	GeneratedAt time.Time      `json:"generated_at"`
	Archives   []ManifestEntry `json:"archives"`
}

// Corpus writes entries into one or more ZIP archives of at most
// batchSize files each, named "<base>_NNNNN.zip" with a 5-digit
// one-based batch index, and a manifest JSON listing every archive.
// basePath should not include an extension; the archive and manifest
// extensions are appended here.
func Corpus(basePath string, landName string, entries []core.Expression, readableOf func(core.Expression) string, batchSize int, now time.Time) (Manifest, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if err := ensureDir(filepath.Dir(basePath)); err != nil {
		return Manifest{}, err
	}

	manifest := Manifest{Land: landName, GeneratedAt: now.UTC()}

	for batchStart, batchIdx := 0, 1; batchStart < len(entries); batchStart, batchIdx = batchStart+batchSize, batchIdx+1 {
		end := batchStart + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[batchStart:end]

		archivePath := fmt.Sprintf("%s_%05d.zip", basePath, batchIdx)
		if err := writeZipBatch(archivePath, batch, readableOf); err != nil {
			return manifest, err
		}
		manifest.Archives = append(manifest.Archives, ManifestEntry{
			Archive:    filepath.Base(archivePath),
			EntryCount: len(batch),
		})
	}

	manifestPath := basePath + "_manifest.json"
	if err := writeManifest(manifestPath, manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

func writeZipBatch(path string, batch []core.Expression, readableOf func(core.Expression) string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	for _, e := range batch {
		name := fmt.Sprintf("%d.txt", e.ID)
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(readableOf(e))); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeManifest(path string, m Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
