// Package catalog discovers the source files the game draws samples from.
package catalog

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"codeguess/internal/apperr"
	"codeguess/internal/models"
	"codeguess/internal/normalize"
)

const (
	DefaultMinLines   = 50
	DefaultExcludeDir = "jupyter"
)

type Options struct {
	Extensions  []string
	ExcludeDirs []string
	MinLines    int
}

func DefaultOptions() Options {
	return Options{
		Extensions:  DefaultExtensions(),
		ExcludeDirs: []string{DefaultExcludeDir},
		MinLines:    DefaultMinLines,
	}
}

// Discover walks root and returns every eligible source file. Unreadable
// directories and files are skipped rather than reported.
func Discover(root string, opts Options) []models.SourceFile {
	allowed := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	var files []models.SourceFile
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excluded(d.Name(), opts.ExcludeDirs) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		if countLines(path) < opts.MinLines {
			return nil
		}
		files = append(files, models.SourceFile{
			Path:     path,
			Language: string(DetectLanguage(path)),
		})
		return nil
	})
	return files
}

func excluded(name string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.EqualFold(name, dir) {
			return true
		}
	}
	return false
}

// countLines counts lines the way an editor does: "a\nb\n" has three.
// Unreadable files count as empty.
func countLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return 0
	}
	return strings.Count(string(data), "\n") + 1
}

// Catalog is the fixed set of files discovered at startup.
type Catalog struct {
	files []models.SourceFile

	mu  sync.Mutex
	rng *rand.Rand
}

func New(files []models.SourceFile, rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Catalog{files: files, rng: rng}
}

func (c *Catalog) Len() int {
	return len(c.files)
}

// Languages returns the sorted, distinct language tags in the catalog.
func (c *Catalog) Languages() []string {
	seen := make(map[string]struct{})
	langs := []string{}
	for _, f := range c.files {
		if _, ok := seen[f.Language]; ok {
			continue
		}
		seen[f.Language] = struct{}{}
		langs = append(langs, f.Language)
	}
	slices.Sort(langs)
	return langs
}

func (c *Catalog) pick() (models.SourceFile, bool) {
	if len(c.files) == 0 {
		return models.SourceFile{}, false
	}
	c.mu.Lock()
	i := c.rng.IntN(len(c.files))
	c.mu.Unlock()
	return c.files[i], true
}

// Random reads a randomly chosen file and returns its normalized text.
func (c *Catalog) Random() (models.Sample, error) {
	file, ok := c.pick()
	if !ok {
		return models.Sample{}, apperr.Unavailable("No source files available")
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return models.Sample{}, apperr.Unavailable("Could not read source file")
	}

	return models.Sample{
		Code:     normalize.Normalize(string(data)),
		Language: file.Language,
	}, nil
}

func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%d files, %d languages)", len(c.files), len(c.Languages()))
}
