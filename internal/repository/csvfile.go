package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
)

const utf8BOM = "\ufeff"

// table is a CSV file held in memory with its header
type table struct {
	header []string
	rows   [][]string
	index  map[string]int
	// bom is set when the file started with a UTF-8 byte order mark
	bom bool
}

func (t *table) column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// cell returns the trimmed value of column i, or "" for short rows
func (t *table) cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) require(path string, names ...string) error {
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return fmt.Errorf("%w: %s has no %q column", models.ErrIO, path, n)
		}
	}
	return nil
}

// readTable loads a CSV file whose first row is the header
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", models.ErrIO, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	// Hand-edited files carry stray quotes in names.
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", models.ErrIO, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", models.ErrIO, path)
	}

	t := &table{header: records[0], rows: records[1:], index: make(map[string]int)}
	if strings.HasPrefix(t.header[0], utf8BOM) {
		t.header[0] = strings.TrimPrefix(t.header[0], utf8BOM)
		t.bom = true
	}
	for i, name := range t.header {
		t.index[strings.TrimSpace(name)] = i
	}
	return t, nil
}

// replaceFile writes a new version of path through a temp file in the same
// directory and renames it over the original. On any error the original is left as is.
func replaceFile(path string, write func(w io.Writer) error) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %s: %v", models.ErrIO, path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", models.ErrIO, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync %s: %v", models.ErrIO, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", models.ErrIO, path, err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("%w: failed to chmod %s: %v", models.ErrIO, path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %v", models.ErrIO, path, err)
	}
	return nil
}

// write renders the table back, restoring the byte order mark it was read with
func (t *table) write(w io.Writer) error {
	if t.bom {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	return writeCSV(w, t.header, t.rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
