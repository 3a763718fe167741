package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"musaetermo/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := New(t.TempDir())
	require.NoError(t, err)
	return a
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"termo-musae-bot-Ana-Silva-1709300000000.pdf", "termo-musae-bot-Ana-Silva-1709300000000.pdf"},
		{"../../etc/passwd.pdf", ".._.._etc_passwd.pdf"},
		{"nome com espaço.pdf", "nome_com_espa__o.pdf"},
		{"a/b\\c.pdf", "a_b_c.pdf"},
		{"assinatura!?.pdf", "assinatura__.pdf"},
	}
	for _, c := range cases {
		got := SanitizeFileName(c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, "\\")
	}
}

func TestSaveWritesFileAndLogEntry(t *testing.T) {
	a := newArchive(t)

	record := types.SignatureRecord{
		UserName:      "Ana Silva",
		SignatureDate: "2024-03-01",
		AcceptTerms:   true,
	}
	name, err := a.Save([]byte("%PDF-1.4 fake"), "termo-musae-bot-Ana-Silva-1709300000000.pdf", record)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(a.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)

	records, err := a.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, name, records[0].Arquivo)
	assert.Equal(t, "Ana Silva", records[0].Assinante)
	assert.Equal(t, "2024-03-01", records[0].Data)
	assert.NotEmpty(t, records[0].Timestamp)
}

func TestSaveTraversalNameStaysInside(t *testing.T) {
	a := newArchive(t)

	name, err := a.Save([]byte("x"), "../../escape.pdf", types.SignatureRecord{UserName: "x"})
	require.NoError(t, err)
	assert.Equal(t, ".._.._escape.pdf", name)

	// The file must exist inside the archive dir and nowhere above it.
	_, err = os.Stat(filepath.Join(a.Dir(), name))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(a.Dir(), "..", "escape.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestRepeatSubmissionsKeepBothEntries(t *testing.T) {
	a := newArchive(t)
	record := types.SignatureRecord{UserName: "Ana Silva", SignatureDate: "2024-03-01"}

	// Distinct timestamps in the derived filename keep the files
	// distinct; the log grows by one per save.
	_, err := a.Save([]byte("one"), "termo-musae-bot-Ana-Silva-1.pdf", record)
	require.NoError(t, err)
	_, err = a.Save([]byte("two"), "termo-musae-bot-Ana-Silva-2.pdf", record)
	require.NoError(t, err)

	files, err := a.List()
	require.NoError(t, err)
	assert.Len(t, files, 2)

	records, err := a.Records()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestConcurrentSavesLoseNoLogEntries(t *testing.T) {
	a := newArchive(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "termo-" + strings.Repeat("a", i+1) + ".pdf"
			_, err := a.Save([]byte("pdf"), name, types.SignatureRecord{UserName: "x"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := a.Records()
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestListEmptyDir(t *testing.T) {
	a := newArchive(t)

	files, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	records, err := a.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListSkipsNonPDF(t *testing.T) {
	a := newArchive(t)
	_, err := a.Save([]byte("pdf"), "doc.pdf", types.SignatureRecord{UserName: "x"})
	require.NoError(t, err)

	// registro.json lives in the same directory and must not appear
	// in the listing.
	files, err := a.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "doc.pdf", files[0].Nome)
	assert.Greater(t, files[0].Tamanho, int64(0))
}

func TestResolve(t *testing.T) {
	a := newArchive(t)
	_, err := a.Save([]byte("pdf"), "real.pdf", types.SignatureRecord{UserName: "x"})
	require.NoError(t, err)

	path, err := a.Resolve("real.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.Dir(), "real.pdf"), path)

	for _, bad := range []string{
		"missing.pdf",
		"../real.pdf/../../../etc/passwd",
		"real.txt",
		"registro.json",
		"..%2F..%2Fetc%2Fpasswd.pdf",
	} {
		_, err := a.Resolve(bad)
		assert.ErrorIs(t, err, ErrNotFound, "input %q", bad)
	}
}
