package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"salarydash/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const header = "ano,senioridade,contrato,cargo,usd,remoto,tamanho_empresa,residencia_iso3\n"

func writeCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	content := header
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProvider_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salaries.csv")
	writeCSV(t, path, "2024,senior,integral,Data Scientist,100000,remoto,media,USA")

	p := NewProvider(path, engine.DefaultColumns(), zap.NewNop())
	assert.Nil(t, p.Store())

	require.NoError(t, p.Load())
	require.NotNil(t, p.Store())
	assert.Equal(t, 1, p.Store().Len())
}

func TestProvider_FailedLoadKeepsPreviousStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salaries.csv")
	writeCSV(t, path, "2024,senior,integral,Data Scientist,100000,remoto,media,USA")

	p := NewProvider(path, engine.DefaultColumns(), zap.NewNop())
	require.NoError(t, p.Load())
	before := p.Store()

	require.NoError(t, os.WriteFile(path, []byte("ano,cargo\n2024,Data Scientist\n"), 0644))
	assert.Error(t, p.Load())
	assert.Same(t, before, p.Store())
}

func TestProvider_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salaries.csv")
	writeCSV(t, path, "2024,senior,integral,Data Scientist,100000,remoto,media,USA")

	p := NewProvider(path, engine.DefaultColumns(), zap.NewNop())
	require.NoError(t, p.Load())

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *engine.ColumnStore, 16)
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, 20*time.Millisecond, func(s *engine.ColumnStore) { reloaded <- s })
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Keep rewriting until the watcher is registered and picks a change up.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case s := <-reloaded:
			assert.Equal(t, 2, s.Len())
			assert.Same(t, s, p.Store())
			return
		case <-tick.C:
			writeCSV(t, path,
				"2024,senior,integral,Data Scientist,100000,remoto,media,USA",
				"2023,pleno,integral,Data Engineer,90000,hibrido,grande,DEU")
		case <-deadline:
			t.Fatal("dataset was not reloaded")
		}
	}
}
