package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

// ResolveFiles expands an input path into the ordered list of files to
// convert. A regular file must carry a supported extension; a directory
// contributes its direct entries with supported extensions, sorted
// lexicographically by name. Subdirectories are not recursed into.
func ResolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !domain.IsSupportedFile(path) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if domain.IsSupportedFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDirectory, path)
	}

	sort.Strings(files)
	return files, nil
}
