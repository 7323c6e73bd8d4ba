package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ctchen222/tictactoe-local/internal/player"
)

// DefaultPlayerDataFile is the record file name used when none is configured.
const DefaultPlayerDataFile = "playerData.txt"

type fileBackend struct {
	path string
}

// NewFileStore creates a Store persisted as one record line per player in path.
func NewFileStore(path string, opts ...Option) *Store {
	return newStore(&fileBackend{path: path}, opts...)
}

func (b *fileBackend) kind() string { return "file" }

func (b *fileBackend) prepare(ctx context.Context) error {
	return os.MkdirAll(filepath.Dir(b.path), 0o755)
}

func (b *fileBackend) load(ctx context.Context) ([]player.Record, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []player.Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := player.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", b.path, lineNo, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// save writes to a temporary file in the same directory and renames it over
// the old file, so readers never observe a half-written list.
func (b *fileBackend) save(ctx context.Context, records []player.Record) error {
	var buf bytes.Buffer
	for _, r := range records {
		buf.WriteString(r.FormatLine())
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), "."+filepath.Base(b.path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}
