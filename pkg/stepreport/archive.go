package stepreport

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedEntry is returned when the screenshot tree holds an entry
// that cannot be archived as a regular file.
var ErrUnsupportedEntry = errors.New("unsupported screenshot entry")

// ArchiveResult lists what was packaged.
type ArchiveResult struct {
	// Path is the archive file.
	Path string

	// Entries are the archive entry names, screenshots first and the
	// document last.
	Entries []string
}

// Archive packages the document and every file under screenshotRoot into a
// zip at archivePath, then removes the screenshot tree and the document.
// Symlinks to regular files are archived with the target content. Entry
// names are relative to the document directory, so screenshotRoot must lie
// inside it. A missing screenshotRoot is treated as an empty tree. Nothing
// is removed when an entry cannot be archived.
func Archive(documentPath, screenshotRoot, archivePath string) (*ArchiveResult, error) {
	baseDir := filepath.Dir(documentPath)

	files, err := collectFiles(screenshotRoot)
	if err != nil {
		return nil, err
	}
	files = append(files, documentPath)

	names := make([]string, 0, len(files))
	for _, file := range files {
		name, err := entryName(baseDir, file)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("could not create archive %q: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	result := &ArchiveResult{Path: archivePath}
	for i, file := range files {
		name := names[i]
		if err := addZipEntry(zw, file, name); err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize archive %q: %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("could not close archive %q: %w", archivePath, err)
	}

	if err := os.RemoveAll(screenshotRoot); err != nil {
		return nil, fmt.Errorf("could not remove screenshot directory %q: %w", screenshotRoot, err)
	}
	if err := os.Remove(documentPath); err != nil {
		return nil, fmt.Errorf("could not remove report file %q: %w", documentPath, err)
	}

	return result, nil
}

func entryName(baseDir, file string) (string, error) {
	name, err := filepath.Rel(baseDir, file)
	if err != nil {
		return "", fmt.Errorf("could not resolve archive entry for %q: %w", file, err)
	}
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("screenshot %q is outside the report directory %q", file, baseDir)
	}
	return filepath.ToSlash(name), nil
}

// collectFiles returns every file under root in lexical order. Symlinks must
// resolve to regular files; any other non-directory entry is an error.
func collectFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		switch {
		case d.IsDir():
			return nil
		case d.Type().IsRegular():
			files = append(files, path)
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrUnsupportedEntry, path, err)
			}
			if !info.Mode().IsRegular() {
				return fmt.Errorf("%w: %s links to %s", ErrUnsupportedEntry, path, info.Mode().Type())
			}
			files = append(files, path)
			return nil
		default:
			return fmt.Errorf("%w: %s is %s", ErrUnsupportedEntry, path, d.Type())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not list screenshots in %q: %w", root, err)
	}
	return files, nil
}

func addZipEntry(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("could not add %q to archive: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("could not write %q to archive: %w", name, err)
	}
	return nil
}
