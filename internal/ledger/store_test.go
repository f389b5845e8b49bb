package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledger/pkg/transaction"
)

func newMemStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := NewStore(DefaultConfig("/data/finance_data.csv"), WithFs(fs))
	require.NoError(t, s.Initialize())
	return s, fs
}

func mustTx(t *testing.T, date, amount string, c transaction.Category, desc string) transaction.Transaction {
	t.Helper()
	tx, err := transaction.New(date, amount, string(c), desc)
	require.NoError(t, err)
	return tx
}

func TestStore_InitializeCreatesHeader(t *testing.T) {
	s, fs := newMemStore(t)

	data, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)
	assert.Equal(t, "date,amount,category,description\n", string(data))

	list, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_InitializeIsIdempotent(t *testing.T) {
	s, fs := newMemStore(t)
	require.NoError(t, s.Append(mustTx(t, "01-02-2024", "10", transaction.Income, "gift")))

	before, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Initialize())

	after, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_AppendRoundTrip(t *testing.T) {
	s, _ := newMemStore(t)

	want := transaction.List{
		mustTx(t, "03-01-2024", "1500.00", transaction.Income, "salary"),
		mustTx(t, "01-01-2024", "12.345", transaction.Expense, "coffee, large"),
		mustTx(t, "02-01-2024", "0.1", transaction.Expense, ""),
		mustTx(t, "02-01-2024", "7", transaction.Expense, "quote \"this\"\nand a newline"),
	}
	for _, tx := range want {
		require.NoError(t, s.Append(tx))
	}

	got, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "amount %d: %s != %s", i, want[i].Amount, got[i].Amount)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Description, got[i].Description)
	}
}

func TestStore_AppendPreservesExistingRows(t *testing.T) {
	s, fs := newMemStore(t)
	require.NoError(t, s.Append(mustTx(t, "01-02-2024", "10", transaction.Income, "a")))

	before, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)

	require.NoError(t, s.Append(mustTx(t, "02-02-2024", "5", transaction.Expense, "b")))

	after, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)
	assert.Equal(t, string(before)+"02-02-2024,5,Expense,b\n", string(after))
}

func TestStore_AppendRejectsInvalidCategory(t *testing.T) {
	s, fs := newMemStore(t)
	before, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)

	tx := transaction.Transaction{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(5),
		Category: "Transfer",
	}
	err = s.Append(tx)
	assert.ErrorIs(t, err, transaction.ErrValidation)

	after, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_AppendRejectsCarriageReturn(t *testing.T) {
	s, fs := newMemStore(t)
	before, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)

	tx := transaction.Transaction{
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1),
		Category:    transaction.Income,
		Description: "a\r\nb",
	}
	assert.ErrorIs(t, s.Append(tx), transaction.ErrValidation)

	after, err := afero.ReadFile(fs, s.Config().Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_AppendAfterUnterminatedRow(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "date,amount,category,description\n01-01-2024,10,Income,first"
	require.NoError(t, afero.WriteFile(fs, "/l.csv", []byte(content), 0o644))

	s := NewStore(DefaultConfig("/l.csv"), WithFs(fs))
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Append(mustTx(t, "02-01-2024", "5", transaction.Expense, "second")))

	data, err := afero.ReadFile(fs, "/l.csv")
	require.NoError(t, err)
	assert.Equal(t, content+"\n02-01-2024,5,Expense,second\n", string(data))

	list, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Description)
	assert.Equal(t, "second", list[1].Description)
}

func TestStore_AppendWithoutFile(t *testing.T) {
	s := NewStore(DefaultConfig("/missing.csv"), WithFs(afero.NewMemMapFs()))
	err := s.Append(mustTx(t, "01-01-2024", "1", transaction.Income, ""))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestStore_AppendReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, NewStore(DefaultConfig("/l.csv"), WithFs(base)).Initialize())

	s := NewStore(DefaultConfig("/l.csv"), WithFs(afero.NewReadOnlyFs(base)))
	err := s.Append(mustTx(t, "01-01-2024", "1", transaction.Income, ""))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestStore_LoadAllMissingFile(t *testing.T) {
	s := NewStore(DefaultConfig("/missing.csv"), WithFs(afero.NewMemMapFs()))
	_, err := s.LoadAll()
	assert.ErrorIs(t, err, ErrStorage)
}

func TestStore_LoadAllCorruptRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"wrong header", "when,amount,category,description\n"},
		{"bad date", "date,amount,category,description\n2024-01-01,1,Income,x\n"},
		{"bad amount", "date,amount,category,description\n01-01-2024,abc,Income,x\n"},
		{"negative amount", "date,amount,category,description\n01-01-2024,-1,Income,x\n"},
		{"bad category", "date,amount,category,description\n01-01-2024,1,Transfer,x\n"},
		{"padded date", "date,amount,category,description\n 01-01-2024 ,1,Income,x\n"},
		{"padded amount", "date,amount,category,description\n01-01-2024, 1,Income,x\n"},
		{"padded category", "date,amount,category,description\n01-01-2024,1, Income,x\n"},
		{"missing field", "date,amount,category,description\n01-01-2024,1,Income\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/l.csv", []byte(tt.content), 0o644))
			s := NewStore(DefaultConfig("/l.csv"), WithFs(fs))

			_, err := s.LoadAll()
			assert.ErrorIs(t, err, ErrCorruptRow)
		})
	}
}

func TestStore_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "finance_data.csv")
	s := NewStore(DefaultConfig(path))

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Append(mustTx(t, "15-06-2024", "42.42", transaction.Expense, "books")))

	_, err := os.Stat(path)
	require.NoError(t, err)

	reopened := NewStore(DefaultConfig(path))
	require.NoError(t, reopened.Initialize())
	list, err := reopened.LoadAll()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "books", list[0].Description)
}

func TestStore_ConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig("/l.csv")
	s := NewStore(cfg, WithFs(afero.NewMemMapFs()))

	cfg.Columns[0] = "when"
	assert.Equal(t, Columns, s.Config().Columns)

	got := s.Config()
	got.Columns[0] = "when"
	assert.Equal(t, Columns, s.Config().Columns)
}
