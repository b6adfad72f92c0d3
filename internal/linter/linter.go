// Package linter drives the per-file lint pipeline: parse, rule evaluation,
// the optional fix loop, and parallel directory runs.
package linter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alanmcruickshank/sqlfluff/internal/config"
	"github.com/alanmcruickshank/sqlfluff/internal/dialect"
	"github.com/alanmcruickshank/sqlfluff/internal/fix"
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/parser"
	"github.com/alanmcruickshank/sqlfluff/internal/rules"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// Finding is the span-level view of one lint result, detached from the
// segment tree so it can be cached and reported after the tree is gone.
type Finding struct {
	Rule        string
	Severity    lint.Severity
	Span        source.Span
	Description string
	Fixable     bool
}

// FileResult collects everything one file produced during a run.
// Set — приватный FileSet воркера: спаны Findings резолвятся только им.
type FileResult struct {
	Path      string
	Set       *source.FileSet
	FileID    source.FileID // последняя версия файла (после фиксов)
	Findings  []Finding
	Fixed     bool
	Text      string
	Applied   []fix.AppliedFix
	Skipped   []fix.SkippedFix
	FromCache bool
	Err       error
}

// Options configures a run.
type Options struct {
	Config     *config.Config
	Registry   *rules.Registry
	Rules      []string // ограничить прогон этими кодами правил (пусто = все)
	MaxResults int
	Jobs       int
	Fix        bool // применять фиксы (lint-only иначе)
	Once       bool // один проход фиксов вместо цикла до неподвижной точки
	Write      bool // записывать исправленные файлы на диск
	Cache      *DiskCache
}

// Linter owns validated options. Один Linter обслуживает весь запуск.
type Linter struct {
	cfg        *config.Config
	reg        *rules.Registry
	dia        *dialect.Dialect
	maxResults int
	jobs       int
	applyFixes bool
	oncePass   bool
	write      bool
	cache      *DiskCache
}

// filterRegistry builds a sub-registry restricted to the requested codes.
// Неизвестный код — ошибка: пользователь опечатался, а не отключил правило.
func filterRegistry(reg *rules.Registry, cfg *config.Config, codes []string) (*rules.Registry, error) {
	want := make(map[string]bool, len(codes))
	for _, code := range codes {
		want[code] = false
	}
	filtered := rules.NewRegistry()
	for _, rule := range reg.Rules() {
		if _, ok := want[rule.Code()]; !ok {
			continue
		}
		if err := filtered.Register(rule, cfg); err != nil {
			return nil, err
		}
		want[rule.Code()] = true
	}
	for code, found := range want {
		if !found {
			return nil, fmt.Errorf("linter: unknown rule code %q", code)
		}
	}
	return filtered, nil
}

// New validates options and builds a Linter. Ошибки конфигурации правил
// всплывают здесь, до обработки файлов.
func New(opts Options) (*Linter, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	reg := opts.Registry
	if reg == nil {
		var err error
		reg, err = rules.Default(cfg)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Rules) > 0 {
		var err error
		reg, err = filterRegistry(reg, cfg, opts.Rules)
		if err != nil {
			return nil, err
		}
	}
	dialectName := cfg.GetString("ansi", "core", "dialect")
	dia, ok := dialect.Lookup(dialectName)
	if !ok {
		return nil, fmt.Errorf("linter: unknown dialect %q", dialectName)
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	cache := opts.Cache
	if len(opts.Rules) > 0 {
		// Ключ кэша не учитывает фильтр правил — кэш здесь неприменим.
		cache = nil
	}
	return &Linter{
		cfg:        cfg,
		reg:        reg,
		dia:        dia,
		maxResults: maxResults,
		jobs:       jobs,
		applyFixes: opts.Fix,
		oncePass:   opts.Once,
		write:      opts.Write,
		cache:      cache,
	}, nil
}

// LintText lints in-memory content under a virtual name (stdin, tests).
func (l *Linter) LintText(name string, content []byte) FileResult {
	set := source.NewFileSet()
	id := set.AddVirtual(name, content)
	return l.processFile(set, id, name)
}

// listSQLFiles возвращает отсортированный список всех *.sql файлов.
func listSQLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ExpandPaths resolves the argument list into a sorted list of SQL files:
// directories are walked recursively, explicit files are taken as-is.
func ExpandPaths(paths []string, statDir func(string) (bool, error)) ([]string, error) {
	var files []string
	for _, p := range paths {
		isDir, err := statDir(p)
		if err != nil {
			return nil, err
		}
		if !isDir {
			files = append(files, p)
			continue
		}
		sub, err := listSQLFiles(p)
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	sort.Strings(files)
	return files, nil
}

// Run lints (and optionally fixes) the given files in parallel. Results come
// back in the input order regardless of completion order.
func (l *Linter) Run(ctx context.Context, files []string, observe func(FileResult)) ([]FileResult, error) {
	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(l.jobs, max(len(files), 1)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// Приватный FileSet: цикл фиксов добавляет новые версии файла,
			// а FileSet не потокобезопасен.
			set := source.NewFileSet()
			id, err := set.Load(path)
			if err != nil {
				results[i] = FileResult{Path: path, Err: fmt.Errorf("load %s: %w", path, err)}
				if observe != nil {
					observe(results[i])
				}
				return nil
			}

			res := l.processFile(set, id, path)
			if res.Err == nil && res.Fixed && l.write {
				if err := writeFixed(path, res.Text); err != nil {
					res.Err = fmt.Errorf("write %s: %w", path, err)
				}
			}
			results[i] = res
			if observe != nil {
				observe(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// processFile runs the pipeline for one loaded file: cache probe, the fix
// loop (bounded by linting.fix_iterations), then the reporting lint pass.
func (l *Linter) processFile(set *source.FileSet, id source.FileID, path string) FileResult {
	res := FileResult{Path: path, Set: set, FileID: id}
	file := set.Get(id)

	// Кэш валиден только для lint-only: фиксам нужно живое дерево.
	if l.cache != nil && !l.applyFixes {
		key := cacheKey(file.Hash, l.cfg.Hash())
		var payload DiskPayload
		if ok, err := l.cache.Get(key, &payload); err == nil && ok {
			if findings := payloadToFindings(&payload, id); findings != nil {
				res.Findings = findings
				res.Text = string(file.Content)
				res.FromCache = true
				return res
			}
		}
	}

	curID := id
	if l.applyFixes {
		iterations := l.cfg.GetInt(10, "linting", "fix_iterations")
		if l.oncePass {
			iterations = 1
		}
		for iter := 0; iter < iterations; iter++ {
			tree, bag := l.lintOnce(set, curID)
			if !bag.HasFixes() {
				break
			}
			out, err := fix.Apply(tree, bag.Items())
			if errors.Is(err, fix.ErrNoFixes) {
				break
			}
			res.Skipped = append(res.Skipped, out.Skipped...)
			if err != nil {
				// Структурная ошибка: деградируем до diagnostics-only,
				// исходный файл не трогаем.
				res.Err = fmt.Errorf("fix %s: %w", path, err)
				break
			}
			// Round-trip: конкатенация листьев обязана дать новый текст,
			// иначе фиксы этого прохода отбрасываются.
			if err := tree.Validate(out.Text); err != nil {
				res.Err = fmt.Errorf("fix %s: %w", path, err)
				break
			}
			res.Applied = append(res.Applied, out.Applied...)
			res.Fixed = true
			// Индекс FileSet всегда указывает на свежую версию пути.
			set.Add(file.Path, []byte(out.Text), file.Flags)
			curID, _ = set.GetLatest(file.Path)
		}
	}

	// Финальный проход даёт findings по фактическому состоянию файла.
	_, bag := l.lintOnce(set, curID)
	res.FileID = curID
	res.Findings = findingsFromBag(bag)
	res.Text = string(set.Get(curID).Content)

	if l.cache != nil && !l.applyFixes && res.Err == nil {
		key := cacheKey(file.Hash, l.cfg.Hash())
		// Ошибка записи кэша не влияет на результат запуска.
		_ = l.cache.Put(key, findingsToPayload(file.Hash, l.cfg.Hash(), res.Findings))
	}
	return res
}

func (l *Linter) lintOnce(set *source.FileSet, id source.FileID) (*segment.Tree, *lint.Bag) {
	tree := parser.ParseWith(set.Get(id), l.dia)
	bag := lint.NewBag(l.maxResults)
	l.reg.LintTree(tree, l.cfg, bag)
	bag.Sort()
	return tree, bag
}

func findingsFromBag(bag *lint.Bag) []Finding {
	items := bag.Items()
	findings := make([]Finding, 0, len(items))
	for _, r := range items {
		findings = append(findings, Finding{
			Rule:        r.Rule,
			Severity:    r.Severity,
			Span:        r.Span(),
			Description: r.Description,
			Fixable:     r.HasFixes(),
		})
	}
	return findings
}
