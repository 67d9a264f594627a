// Package importer merges CSV files dropped into the data directory's import
// folder into the store and moves them aside once processed.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/store"
)

// Kind names the entity a CSV file holds.
type Kind string

const (
	KindAccounts     Kind = "accounts"
	KindInventory    Kind = "inventory"
	KindTransactions Kind = "transactions"
)

// ErrUnknownKind is returned when no decoder recognizes a file's header.
var ErrUnknownKind = errors.New("unrecognized CSV header")

// Decoder reads one kind of CSV file and merges its records into a store.
type Decoder interface {
	Kind() Kind
	Columns() []string
	Merge(s *store.Store, r io.Reader) (store.MergeStats, []csvrow.RowError, error)
}

// Registry holds decoders in registration order.
type Registry struct {
	decoders []Decoder
	byKind   map[Kind]Decoder
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Result summarizes one imported file.
type Result struct {
	File     string
	Kind     Kind
	Stats    store.MergeStats
	Rejected []csvrow.RowError
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[Kind]Decoder)}
}

// Register adds a decoder. Panics on duplicate kind.
func (r *Registry) Register(d Decoder) {
	if _, ok := r.byKind[d.Kind()]; ok {
		panic("duplicate decoder kind: " + string(d.Kind()))
	}
	r.byKind[d.Kind()] = d
	r.decoders = append(r.decoders, d)
}

// Get returns the decoder for kind, or nil.
func (r *Registry) Get(kind string) Decoder {
	return r.byKind[Kind(strings.ToLower(kind))]
}

// Detect returns the first decoder whose columns all appear in the header.
func (r *Registry) Detect(header []string) (Decoder, error) {
	t := &csvrow.Table{Header: header}
	for _, d := range r.decoders {
		if t.HasColumns(d.Columns()...) {
			return d, nil
		}
	}
	return nil, ErrUnknownKind
}

// DefaultRegistry returns a registry with the three entity decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(AccountsDecoder{})
	r.Register(InventoryDecoder{})
	r.Register(TransactionsDecoder{})
	return r
}

// Import detects the kind of the CSV in r and merges it into s. A non-empty
// kind skips detection.
func (r *Registry) Import(s *store.Store, src io.Reader, kind string) (Result, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return Result{}, fmt.Errorf("reading import: %w", err)
	}

	var d Decoder
	if kind != "" {
		if d = r.Get(kind); d == nil {
			return Result{}, fmt.Errorf("unknown import kind %q", kind)
		}
	} else {
		table, err := csvrow.Parse(bytes.NewReader(data))
		if err != nil {
			return Result{}, err
		}
		if d, err = r.Detect(table.Header); err != nil {
			return Result{}, err
		}
	}

	stats, rejected, err := d.Merge(s, bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("importing %s: %w", d.Kind(), err)
	}
	return Result{Kind: d.Kind(), Stats: stats, Rejected: rejected}, nil
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Dir returns the import directory under dataDir.
func Dir(dataDir string) string {
	return filepath.Join(dataDir, importDir)
}

// ProcessedDir returns the directory processed files are moved to.
func ProcessedDir(dataDir string) string {
	return filepath.Join(dataDir, processedDir)
}

// Scan returns CSV files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := Dir(dataDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(Dir(dataDir), fileName)
	dstDir := ProcessedDir(dataDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Run imports every CSV in the import directory. Files with an unrecognized
// header are left in place; everything else is moved to processed/.
func (r *Registry) Run(dataDir string, s *store.Store, log logrus.FieldLogger) ([]Result, error) {
	files, err := Scan(dataDir)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, fi := range files {
		res, err := r.importFile(s, fi.Path)
		if errors.Is(err, ErrUnknownKind) {
			log.WithField("file", fi.Name).Warn("skipping file with unrecognized header")
			continue
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", fi.Name, err)
		}
		res.File = fi.Name

		if err := MarkProcessed(dataDir, fi.Name); err != nil {
			return results, err
		}
		log.WithFields(logrus.Fields{
			"file":     fi.Name,
			"kind":     res.Kind,
			"added":    res.Stats.Added,
			"skipped":  res.Stats.Skipped,
			"rejected": len(res.Rejected),
		}).Info("file imported")
		for _, re := range res.Rejected {
			log.WithField("file", fi.Name).Warn(re.Error())
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Registry) importFile(s *store.Store, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening import: %w", err)
	}
	defer f.Close()
	return r.Import(s, f, "")
}
