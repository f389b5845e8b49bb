// Package ledger keeps transactions in an append-only CSV file and answers
// date-range queries over them.
package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/example/ledger/pkg/transaction"
)

var (
	// ErrStorage is returned when the backing file cannot be opened, read or written.
	ErrStorage = errors.New("storage error")
	// ErrCorruptRow is returned when a stored row does not parse back into a transaction.
	ErrCorruptRow = errors.New("corrupt row")
)

// Columns is the fixed column order of the ledger file.
var Columns = []string{"date", "amount", "category", "description"}

// Config describes where and how the ledger file is stored.
type Config struct {
	Path       string
	DateLayout string
	Columns    []string
}

// DefaultConfig returns the standard layout for a ledger file at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		DateLayout: transaction.DateLayout,
		Columns:    slices.Clone(Columns),
	}
}

// Store is an append-only ledger backed by a single CSV file.
type Store struct {
	fs     afero.Fs
	cfg    Config
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem the ledger file lives on. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithLogger sets the store logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store for cfg. Zero fields of cfg fall back to DefaultConfig.
func NewStore(cfg Config, opts ...Option) *Store {
	def := DefaultConfig(cfg.Path)
	if cfg.DateLayout == "" {
		cfg.DateLayout = def.DateLayout
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = def.Columns
	} else {
		cfg.Columns = slices.Clone(cfg.Columns)
	}

	s := &Store{
		fs:     afero.NewOsFs(),
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "ledger").Str("path", cfg.Path).Logger()
	return s
}

// Config returns a copy of the store configuration.
func (s *Store) Config() Config {
	cfg := s.cfg
	cfg.Columns = slices.Clone(s.cfg.Columns)
	return cfg
}

// Initialize creates the ledger file with only a header row if it does not
// exist yet. An existing file is left untouched.
func (s *Store) Initialize() error {
	info, err := s.fs.Stat(s.cfg.Path)
	switch {
	case err == nil && info.Size() > 0:
		s.logger.Debug().Msg("ledger already initialized")
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: stat %s: %w", ErrStorage, s.cfg.Path, err)
	}

	if dir := filepath.Dir(s.cfg.Path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrStorage, dir, err)
		}
	}

	row, err := encodeRow(s.cfg.Columns)
	if err != nil {
		return fmt.Errorf("%w: encode header: %w", ErrStorage, err)
	}
	if err := afero.WriteFile(s.fs, s.cfg.Path, row, 0o644); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorage, s.cfg.Path, err)
	}

	s.logger.Info().Msg("ledger created")
	return nil
}

// Append writes tx as one new row at the end of the ledger file. The file
// must already exist; see Initialize.
func (s *Store) Append(tx transaction.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	row, err := encodeRow([]string{
		tx.Date.Format(s.cfg.DateLayout),
		tx.Amount.String(),
		string(tx.Category),
		tx.Description,
	})
	if err != nil {
		return fmt.Errorf("%w: encode row: %w", ErrStorage, err)
	}

	f, err := s.fs.OpenFile(s.cfg.Path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStorage, s.cfg.Path, err)
	}

	terminated, err := endsWithNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: read %s: %w", ErrStorage, s.cfg.Path, err)
	}
	if !terminated {
		row = append([]byte{'\n'}, row...)
	}

	// A single write per row so a reader never sees half of one.
	if _, err := f.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("%w: append to %s: %w", ErrStorage, s.cfg.Path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrStorage, s.cfg.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrStorage, s.cfg.Path, err)
	}

	s.logger.Debug().
		Str("date", tx.Date.Format(s.cfg.DateLayout)).
		Str("amount", tx.Amount.String()).
		Str("category", string(tx.Category)).
		Msg("transaction appended")
	return nil
}

// LoadAll reads every transaction in file order. A row that does not parse
// fails the whole load.
func (s *Store) LoadAll() (transaction.List, error) {
	f, err := s.fs.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorage, s.cfg.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(s.cfg.Columns)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", ErrCorruptRow, s.cfg.Path)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptRow, err)
	}
	if !slices.Equal(header, s.cfg.Columns) {
		return nil, fmt.Errorf("%w: header %v, want %v", ErrCorruptRow, header, s.cfg.Columns)
	}

	list := transaction.List{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %w", ErrCorruptRow, err)
			}
			return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.cfg.Path, err)
		}

		line, _ := r.FieldPos(0)
		tx, err := transaction.NewWithLayout(s.cfg.DateLayout, rec[0], rec[1], rec[2], rec[3])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorruptRow, line, err)
		}
		list = append(list, tx)
	}

	s.logger.Debug().Int("count", len(list)).Msg("ledger loaded")
	return list, nil
}

// endsWithNewline reports whether f is empty or its last byte is a newline.
func endsWithNewline(f afero.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if n, err := f.ReadAt(last, info.Size()-1); n < 1 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return false, err
	}
	return last[0] == '\n', nil
}

func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
