package dataset

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// MaxLineSize is the longest line accepted in a text dataset.
// Lines in the shipped datasets are domains and paths, far below this.
const MaxLineSize = 16 * 1024 * 1024

// utf8BOM is dropped from the start of a text dataset.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads datasets from a base directory.
// A Loader is not safe for concurrent use; loading is strictly sequential.
type Loader struct {
	// baseDir is the directory all manifest filenames are relative to.
	baseDir string

	// manifest is the list of datasets Load reads, in order.
	manifest Manifest

	// logger receives an error record for every failed file and an info
	// record when the whole manifest has loaded.
	logger *slog.Logger

	// norm lower-cases lines; reused across files.
	norm *normalizer

	// now is the clock used for LoadedAt and Duration.
	now func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides time.Now. Tests use it for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader creates a Loader for baseDir using DefaultManifest.
// baseDir is not checked; each file is checked as it is loaded.
func NewLoader(baseDir string, opts ...Option) *Loader {
	l := &Loader{
		baseDir:  baseDir,
		manifest: DefaultManifest(),
		logger:   slog.Default(),
		norm:     newNormalizer(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BaseDir returns the directory the loader reads from.
func (l *Loader) BaseDir() string {
	return l.baseDir
}

// Path returns the full path of filename under the base directory.
func (l *Loader) Path(filename string) string {
	return filepath.Join(l.baseDir, filename)
}

// Load reads every dataset in the manifest, in order, and returns the
// aggregate. The first failure aborts the load: later files are not read and
// no Dataset is returned. Each call reads the files afresh.
func (l *Loader) Load() (*Dataset, error) {
	start := l.now()

	ds := &Dataset{
		baseDir:  l.baseDir,
		loadedAt: start,
		sets:     make(map[Name]LineSet, len(l.manifest)),
		stats:    make([]FileStat, 0, len(l.manifest)),
	}

	for _, entry := range l.manifest {
		switch entry.Kind {
		case KindLineSet:
			set, stat, err := l.loadLineSet(entry.Filename)
			if err != nil {
				return nil, err
			}
			stat.Name = entry.Name
			ds.sets[entry.Name] = set
			ds.stats = append(ds.stats, stat)
		case KindJSON:
			v, stat, err := l.loadJSON(entry.Filename)
			if err != nil {
				return nil, err
			}
			stat.Name = entry.Name
			ds.cloud = v
			ds.stats = append(ds.stats, stat)
		default:
			return nil, fmt.Errorf("dataset %s: unsupported kind %s", entry.Name, entry.Kind)
		}
	}

	ds.duration = l.now().Sub(start)

	l.logger.Info("OSINT datasets loaded successfully",
		"dir", l.baseDir,
		"datasets", len(ds.stats),
		"duration", ds.duration,
	)

	return ds, nil
}

// LoadLineSet reads filename as a line-set dataset.
// A missing file returns a *MissingError; invalid UTF-8 a *ParseError.
// Both are logged at error level before being returned.
func (l *Loader) LoadLineSet(filename string) (LineSet, error) {
	set, _, err := l.loadLineSet(filename)
	return set, err
}

// LoadJSON reads filename as a JSON dataset and returns the decoded value
// unchanged. Numbers are decoded as json.Number. A missing file returns a
// *MissingError and malformed JSON a *ParseError; both are logged.
func (l *Loader) LoadJSON(filename string) (any, error) {
	v, _, err := l.loadJSON(filename)
	return v, err
}

func (l *Loader) loadLineSet(filename string) (LineSet, FileStat, error) {
	path := l.Path(filename)
	stat := FileStat{Filename: filename, Kind: KindLineSet, Path: path}

	f, err := l.open(path)
	if err != nil {
		return LineSet{}, stat, err
	}
	defer f.Close()

	d := newDigester(f)
	scanner := bufio.NewScanner(d)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	scanner.Split(scanLines)

	members := make(map[string]struct{})
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if lineNo == 1 {
			line = bytes.TrimPrefix(line, utf8BOM)
		}
		if !utf8.Valid(line) {
			return LineSet{}, stat, l.parseFailure(path, lineNo, errors.New("invalid UTF-8"))
		}
		if key, ok := l.norm.normalize(string(line)); ok {
			members[key] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return LineSet{}, stat, l.parseFailure(path, lineNo+1, err)
		}
		return LineSet{}, stat, l.readFailure(path, err)
	}

	stat.Entries = len(members)
	stat.Bytes = d.n
	stat.Digest = d.sum()

	l.logger.Debug("dataset loaded", "path", path, "kind", KindLineSet, "entries", stat.Entries)

	return LineSet{members: members}, stat, nil
}

func (l *Loader) loadJSON(filename string) (any, FileStat, error) {
	path := l.Path(filename)
	stat := FileStat{Filename: filename, Kind: KindJSON, Path: path}

	f, err := l.open(path)
	if err != nil {
		return nil, stat, err
	}
	defer f.Close()

	d := newDigester(f)
	data, err := io.ReadAll(d)
	if err != nil {
		return nil, stat, l.readFailure(path, err)
	}

	v, err := decodeJSON(data)
	if err != nil {
		return nil, stat, l.parseFailure(path, 0, err)
	}

	stat.Entries = jsonEntries(v)
	stat.Bytes = d.n
	stat.Digest = d.sum()

	l.logger.Debug("dataset loaded", "path", path, "kind", KindJSON, "entries", stat.Entries)

	return v, stat, nil
}

// open opens path for reading, mapping a missing file to *MissingError.
func (l *Loader) open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Error("missing OSINT dataset", "path", path)
			return nil, &MissingError{Path: path}
		}
		return nil, l.readFailure(path, err)
	}
	if info.IsDir() {
		return nil, l.readFailure(path, errors.New("is a directory"))
	}

	f, err := os.Open(path) //nolint:gosec // Dataset paths come from the fixed manifest
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Error("missing OSINT dataset", "path", path)
			return nil, &MissingError{Path: path}
		}
		return nil, l.readFailure(path, err)
	}
	return f, nil
}

func (l *Loader) parseFailure(path string, line int, err error) error {
	perr := &ParseError{Path: path, Line: line, Err: err}
	l.logger.Error("invalid OSINT dataset", "path", path, "line", line, "error", err)
	return perr
}

func (l *Loader) readFailure(path string, err error) error {
	l.logger.Error("failed to read OSINT dataset", "path", path, "error", err)
	return fmt.Errorf("failed to read OSINT dataset %s: %w", path, err)
}

// Load is shorthand for NewLoader(baseDir, opts...).Load().
func Load(baseDir string, opts ...Option) (*Dataset, error) {
	return NewLoader(baseDir, opts...).Load()
}

// decodeJSON decodes exactly one JSON value. Trailing non-whitespace data
// is an error, as it is for json.Unmarshal.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// jsonEntries counts top-level members: object keys, array elements, or 1
// for a scalar.
func jsonEntries(v any) int {
	switch t := v.(type) {
	case map[string]any:
		return len(t)
	case []any:
		return len(t)
	default:
		return 1
	}
}

// scanLines splits on "\n", "\r\n" or a lone "\r". The terminator is not
// part of the token; a final line without one is still returned.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing "\r" may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// digester hashes and counts everything read through it.
type digester struct {
	r io.Reader
	h hash.Hash
	n int64
}

func newDigester(r io.Reader) *digester {
	return &digester{r: r, h: sha3.New256()}
}

func (d *digester) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.n += int64(n)
	}
	return n, err
}

func (d *digester) sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
