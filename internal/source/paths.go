package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// discoverGlob walks baseDir with a doublestar pattern and returns one
// ref per matching session file, newest first.
func discoverGlob(baseDir, pattern string) ([]SessionRef, error) {
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern)
	if err != nil {
		return nil, &StorageError{Path: baseDir, Op: "glob", Err: err}
	}

	refs := make([]SessionRef, 0, len(matches))
	for _, match := range matches {
		full := filepath.Join(baseDir, filepath.FromSlash(match))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		refs = append(refs, SessionRef{
			ID:      sessionIDFromFile(full),
			Path:    full,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].ModTime.After(refs[j].ModTime)
	})
	return refs, nil
}

func sessionIDFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func homeSubdir(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, parts...)...)
}
