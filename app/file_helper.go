package app

import (
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// FileHelper provides file operation utilities
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// WithGitignore makes directory collection skip paths ignored by the
// root's .gitignore
func (h *FileHelper) WithGitignore(respect bool) *FileHelper {
	h.respectGitignore = respect
	return h
}

// pathFilter decides which collected paths are kept. Paths are matched
// relative to the collection root using gitignore glob syntax.
type pathFilter struct {
	include   *ignore.GitIgnore
	exclude   *ignore.GitIgnore
	gitignore *ignore.GitIgnore
}

func (h *FileHelper) newPathFilter(root string, includePatterns, excludePatterns []string) *pathFilter {
	f := &pathFilter{}
	if len(includePatterns) > 0 {
		f.include = ignore.CompileIgnoreLines(includePatterns...)
	}
	if len(excludePatterns) > 0 {
		f.exclude = ignore.CompileIgnoreLines(excludePatterns...)
	}
	if h.respectGitignore && root != "" {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			f.gitignore = gi
		}
	}
	return f
}

// skipDir reports whether a directory below the root is pruned
func (f *pathFilter) skipDir(rel string) bool {
	if filepath.Base(rel) == ".git" {
		return true
	}
	return f.ignored(rel) || f.ignored(rel+"/")
}

// keepFile reports whether a Python file is collected
func (f *pathFilter) keepFile(rel string) bool {
	if f.ignored(rel) {
		return false
	}
	return f.include == nil || f.include.MatchesPath(rel)
}

func (f *pathFilter) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	if f.exclude != nil && f.exclude.MatchesPath(rel) {
		return true
	}
	return f.gitignore != nil && f.gitignore.MatchesPath(rel)
}

// CollectPythonFiles collects Python files from paths. Explicit file
// arguments are kept unless excluded; directories are walked with the
// include and exclude patterns applied relative to each directory.
// Duplicates are dropped, first occurrence wins.
func (h *FileHelper) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			filter := h.newPathFilter("", nil, excludePatterns)
			if h.IsValidPythonFile(path) && !filter.ignored(path) {
				add(path)
			}
			continue
		}

		filter := h.newPathFilter(path, includePatterns, excludePatterns)

		if !recursive {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if entry.IsDir() || !h.IsValidPythonFile(entry.Name()) {
					continue
				}
				if filter.keepFile(entry.Name()) {
					add(filepath.Join(path, entry.Name()))
				}
			}
			continue
		}

		err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(path, filePath)
			if relErr != nil {
				return relErr
			}

			if d.IsDir() {
				if rel != "." && filter.skipDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if h.IsValidPythonFile(filePath) && filter.keepFile(rel) {
				add(filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsValidPythonFile checks if a file has a Python source extension
func (h *FileHelper) IsValidPythonFile(path string) bool {
	return parser.IsPythonFile(path)
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ResolveFilePaths resolves file paths, returning existing Python files
// directly or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists || !fileHelper.IsValidPythonFile(path) {
			allFiles = false
			break
		}
	}

	// Explicit file lists skip collection entirely
	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectPythonFiles(paths, recursive, includePatterns, excludePatterns)
}
