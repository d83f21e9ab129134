package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arcops/diagnostics/internal/errors"
)

// writeArchive packages every staged file into one compressed zip at
// outputPath. Archive paths are validated so a crafted input name cannot
// escape the bundle root on extraction.
func writeArchive(files []stagedFile, outputPath string) (err error) {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBundleArchive, "create archive file", err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeBundleArchive, "close archive file", closeErr)
		}
	}()

	zw := zip.NewWriter(outFile)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeBundleArchive, "finalize archive", closeErr)
		}
	}()

	for _, f := range files {
		if validateErr := validateArchivePath(f.archivePath); validateErr != nil {
			return errors.Wrap(errors.ErrCodeBundleArchive, "invalid archive path", validateErr)
		}
		if writeErr := writeFileToZip(zw, f.sourcePath, f.archivePath); writeErr != nil {
			return errors.Wrap(errors.ErrCodeBundleArchive,
				fmt.Sprintf("add %s to archive", f.archivePath), writeErr)
		}
	}

	return nil
}

// writeFileToZip copies one file into the archive under archivePath.
func writeFileToZip(zw *zip.Writer, sourcePath, archivePath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer file.Close()

	header := &zip.FileHeader{
		Name:   archivePath,
		Method: zip.Deflate,
	}
	if info, statErr := file.Stat(); statErr == nil {
		header.Modified = info.ModTime()
		header.SetMode(info.Mode())
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("write archive entry: %w", err)
	}

	return nil
}

// validateArchivePath rejects absolute paths, parent references and null
// bytes in archive-relative paths.
func validateArchivePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths not allowed: %s", path)
	}

	cleanPath := filepath.Clean(path)
	if strings.HasPrefix(cleanPath, "..") || strings.Contains(cleanPath, string(filepath.Separator)+"..") {
		return fmt.Errorf("parent directory references not allowed: %s", path)
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("null bytes not allowed in path: %s", path)
	}

	return nil
}
