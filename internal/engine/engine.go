package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/palindrom/palindrom/internal/ignore"
	"github.com/palindrom/palindrom/internal/scanner"
	"github.com/palindrom/palindrom/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IgnoreFile is read from the scan root when present.
const IgnoreFile = ".palindromignore"

// Config controls corpus selection, scanner bounds and concurrency.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	MinLength       int
	MaxLength       int
	PerLine         bool
	Maximal         bool
	DefaultExcludes bool
	Progress        func()
	Logger          *zap.Logger
}

// Result contains matches and basic scan statistics.
type Result struct {
	Matches      []types.Match
	FilesScanned int
	Duration     time.Duration
}

type fileJob struct {
	path string
	data []byte
}

// Scan runs a corpus scan and returns only the matches.
func Scan(ctx context.Context, cfg Config) ([]types.Match, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// ScanWithStats walks cfg.Root and scans every eligible file.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	if err := scanner.Validate(cfg.MinLength, cfg.MaxLength); err != nil {
		return result, err
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ign := loadIgnore(cfg.Root, log)

	started := time.Now()
	var jobs []fileJob
	if err := Walk(ctx, cfg, ign, func(path string, data []byte) {
		jobs = append(jobs, fileJob{path: path, data: data})
	}); err != nil {
		return result, err
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		return filepath.ToSlash(jobs[a].path) < filepath.ToSlash(jobs[b].path)
	})
	log.Debug("corpus collected", zap.String("root", cfg.Root), zap.Int("files", len(jobs)))

	var progressMu sync.Mutex
	perFile := make([][]types.Match, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ms, err := scanFile(job, cfg)
			if err != nil {
				return err
			}
			perFile[i] = ms
			if cfg.Progress != nil {
				progressMu.Lock()
				cfg.Progress()
				progressMu.Unlock()
			}
			log.Debug("file scanned", zap.String("path", job.path), zap.Int("matches", len(ms)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.Matches = []types.Match{}
	for _, ms := range perFile {
		result.Matches = append(result.Matches, ms...)
	}
	result.FilesScanned = len(jobs)
	result.Duration = time.Since(started)
	return result, nil
}

// loadIgnore reads the corpus ignore file. A missing file is normal; any other
// failure is logged and the scan proceeds without ignore patterns.
func loadIgnore(root string, log *zap.Logger) ignore.Matcher {
	path := filepath.Join(root, IgnoreFile)
	ign, err := ignore.Load(path)
	if err != nil && !os.IsNotExist(err) {
		log.Warn("ignore file unreadable", zap.String("path", path), zap.Error(err))
	}
	return ign
}

func scanFile(job fileJob, cfg Config) ([]types.Match, error) {
	text := string(job.data)
	if !cfg.PerLine {
		return scanText(job.path, text, 0, 1, cfg)
	}
	var out []types.Match
	offset := 0
	for n, line := range strings.SplitAfter(text, "\n") {
		ms, err := scanText(job.path, line, offset, n+1, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
		offset += len(line)
	}
	return out, nil
}

// scanText scans text, which starts at byte offset base of the file and on
// line firstLine, and rebases every result to file coordinates.
func scanText(path, text string, base, firstLine int, cfg Config) ([]types.Match, error) {
	found, err := scanner.Scan(text, cfg.MinLength, cfg.MaxLength)
	if err != nil {
		return nil, err
	}
	if cfg.Maximal {
		found = scanner.Maximal(found)
	}
	out := make([]types.Match, 0, len(found))
	for _, p := range found {
		line := firstLine + strings.Count(text[:p.Start], "\n")
		p.Start += base
		p.End += base
		out = append(out, types.Match{
			Palindrome: p,
			Path:       filepath.ToSlash(path),
			Line:       line,
			ID:         Fingerprint(path, p),
		})
	}
	return out, nil
}

// Fingerprint identifies a match by path, offset and letters.
func Fingerprint(path string, p types.Palindrome) string {
	var b bytes.Buffer
	b.WriteString(filepath.ToSlash(path))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(p.Start))
	b.WriteByte('|')
	b.WriteString(p.Normalized)
	return fastHash(b.Bytes())
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
