package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/logical"
	"pyfmt/internal/penalty"
	"pyfmt/internal/reformat"
	"pyfmt/internal/source"
	"pyfmt/internal/style"
)

// FormatOptions configures a formatting run over one or more paths.
type FormatOptions struct {
	// Check reports whether files would change without touching them.
	Check bool
	// Stdout returns formatted content in the results instead of writing.
	Stdout bool
	// Style, when set, overrides per-directory config discovery.
	Style *style.Options
	// MaxDiagnostics caps the diagnostics collected per file.
	MaxDiagnostics int
	// Jobs is the concurrent worker count; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache, when non-nil, skips the layout for unchanged inputs.
	Cache *DiskCache
	// Progress receives per-file events; nil disables reporting.
	Progress ProgressSink
}

// FormatResult captures the outcome for a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	CacheHit  bool
	Formatted []byte
	Original  []byte
	// FileSet resolves the spans in Bag; nil on cache hits and read errors.
	FileSet *source.FileSet
	Bag     *diag.Bag
	Err     error
}

const defaultMaxDiagnostics = 256

// FormatSource formats a single buffer. name is used only in diagnostics.
// The returned bag holds warnings even on success; lexical or structural
// errors abort before layout and are returned as err.
func FormatSource(name string, src []byte, st style.Options, maxDiag int) ([]byte, *diag.Bag, error) {
	out, _, bag, err := formatBuffer(name, src, st, maxDiag)
	return out, bag, err
}

func formatBuffer(name string, src []byte, st style.Options, maxDiag int) ([]byte, *source.FileSet, *diag.Bag, error) {
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiagnostics
	}
	fileSet := source.NewFileSet()
	file := fileSet.Get(fileSet.AddVirtual(name, src))

	bag := diag.NewBag(maxDiag)
	rep := diag.BagReporter{Bag: bag}

	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	if bag.HasErrors() {
		return nil, fileSet, bag, fmt.Errorf("format %s: lexical errors present", name)
	}
	lines := logical.Build(file, toks, rep)
	if bag.HasErrors() {
		return nil, fileSet, bag, fmt.Errorf("format %s: malformed logical lines", name)
	}
	penalty.Annotate(lines)

	out, err := reformat.Reformat(lines, st)
	if err != nil {
		return nil, fileSet, bag, err
	}
	return out, fileSet, bag, nil
}

// FormatPaths formats the given files or directories (recursively collecting
// .py and .pyi files). Files are processed concurrently; results come back
// sorted by path. A per-file failure lands in its FormatResult, not in the
// returned error, so one broken file does not abort the run.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := ListSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no Python source files found")
	}

	for _, path := range files {
		emit(opts.Progress, path, StageRead, StatusQueued, nil, 0)
	}

	results := make([]FormatResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	jobs := opts.Jobs
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = formatOneFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatOneFile(path string, opts FormatOptions) FormatResult {
	res := FormatResult{Path: path}
	begin := time.Now()

	emit(opts.Progress, path, StageRead, StatusWorking, nil, 0)
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		emit(opts.Progress, path, StageRead, StatusError, err, time.Since(begin))
		return res
	}
	res.Original = data

	st, err := styleFor(path, opts)
	if err != nil {
		res.Err = err
		emit(opts.Progress, path, StageRead, StatusError, err, time.Since(begin))
		return res
	}

	emit(opts.Progress, path, StageFormat, StatusWorking, nil, 0)
	key := contentKey(data, st.Fingerprint())
	var payload CachePayload
	if ok, _ := opts.Cache.Get(key, &payload); ok {
		res.Formatted = payload.Formatted
		res.Changed = !bytes.Equal(data, payload.Formatted)
		res.CacheHit = true
	} else {
		formatted, fileSet, bag, err := formatBuffer(path, data, st, opts.MaxDiagnostics)
		res.FileSet = fileSet
		res.Bag = bag
		if err != nil {
			res.Err = err
			emit(opts.Progress, path, StageFormat, StatusError, err, time.Since(begin))
			return res
		}
		res.Formatted = formatted
		res.Changed = !bytes.Equal(data, formatted)
		_ = opts.Cache.Put(key, &CachePayload{Schema: cacheSchemaVersion, Formatted: formatted})
	}

	if opts.Check || opts.Stdout {
		emit(opts.Progress, path, StageWrite, StatusDone, nil, time.Since(begin))
		return res
	}

	if res.Changed {
		emit(opts.Progress, path, StageWrite, StatusWorking, nil, 0)
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, res.Formatted, mode.Perm()); err != nil {
			res.Err = err
			emit(opts.Progress, path, StageWrite, StatusError, err, time.Since(begin))
			return res
		}
	}
	emit(opts.Progress, path, StageWrite, StatusDone, nil, time.Since(begin))
	return res
}

func styleFor(path string, opts FormatOptions) (style.Options, error) {
	if opts.Style != nil {
		return *opts.Style, nil
	}
	return style.ForFile(path)
}

func isPythonFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".py" || ext == ".pyi"
}

// ListSourceFiles resolves the argument paths into the sorted set of files a
// formatting run would touch. Directories are walked recursively for .py and
// .pyi files; explicitly named files are kept regardless of extension.
func ListSourceFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					// Formatting inside virtualenvs or VCS metadata is never wanted.
					name := d.Name()
					if path != p && (strings.HasPrefix(name, ".") || name == "__pycache__" || name == "venv") {
						return filepath.SkipDir
					}
					return nil
				}
				if isPythonFile(path) {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		// Explicitly named files are formatted regardless of extension.
		addFile(p)
	}

	sort.Strings(files)
	return files, nil
}
