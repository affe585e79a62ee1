package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ByLCY/quotedoc/config"
	"github.com/ByLCY/quotedoc/layout"
)

const cliSnapshot = `quote_id: Q-9
project_id: PRJ-3
premium: 57800
contract_structure:
  sub_contractors: [Acme Co, Beta LLC]
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "snap.yaml")
	require.NoError(t, os.WriteFile(snapPath, []byte(cliSnapshot), 0o644))

	a := &app{
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) },
	}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append(args, "--snapshot", snapPath, "--config", filepath.Join(dir, "none.yaml")))
	err := root.Execute()
	return out.String(), err
}

func TestRecordsCommand(t *testing.T) {
	out, err := runCLI(t, "records")
	require.NoError(t, err)

	var records []layout.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 15)
	assert.Equal(t, "Premium", records[9].Label)
	assert.Equal(t, "AED 57,800/- including policy fees", records[9].Value)
	assert.Contains(t, records[1].Value, "1. Acme Co")
}

func TestGenerateCommandWritesPDF(t *testing.T) {
	outDir := t.TempDir()
	debug := filepath.Join(t.TempDir(), "debug", "layout.json")
	out, err := runCLI(t, "generate", "--backend", "fpdf", "--out", outDir, "--debug", debug)
	require.NoError(t, err)

	path := filepath.Join(outDir, "Contractors_All_Risks_Quote_PRJ-3_2026-10-19.pdf")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = os.Stat(debug)
	assert.NoError(t, err)
}

func TestLayoutCommandPrintsPages(t *testing.T) {
	out, err := runCLI(t, "layout", "--backend", "fpdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "page 1: "))
}

func TestUnknownBackend(t *testing.T) {
	_, err := runCLI(t, "records", "--backend", "svg")
	assert.Error(t, err)
}

func TestBuildLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		logger, err := buildLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}
	_, err := buildLogger("loud")
	assert.Error(t, err)
}

func TestConfigInitWritesAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotedoc.yaml")
	out, err := runCLI(t, "config", "init", path, "--backend", "fpdf")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendFPDF, cfg.Backend)
	assert.Equal(t, "AED", cfg.Currency)

	_, err = runCLI(t, "config", "init", path)
	assert.Error(t, err)
	_, err = runCLI(t, "config", "init", path, "--force")
	assert.NoError(t, err)
}

func TestBackCommand(t *testing.T) {
	out, err := runCLI(t, "back",
		"--visit", "/login",
		"--visit", "/broker/dashboard",
		"--visit", "/broker/clients",
		"--visit", "/broker/clients/7",
		"--from", "/broker/clients/7")
	require.NoError(t, err)
	assert.Equal(t, "/broker/clients\n", out)

	out, err = runCLI(t, "back", "--from", "/insurer/quotes/3")
	require.NoError(t, err)
	assert.Equal(t, "/insurer/dashboard\n", out)
}
