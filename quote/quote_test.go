package quote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/quotedoc/assemble"
	"github.com/ByLCY/quotedoc/branding"
	"github.com/ByLCY/quotedoc/layout"
	"github.com/ByLCY/quotedoc/snapshot"
)

// stubBackend 以固定字宽折行，Render 返回一段伪 PDF 数据。
type stubBackend struct {
	charWidth float64
	renderErr error
}

func (s stubBackend) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	measure := func(str string) float64 { return float64(len([]rune(str))) * s.charWidth }
	lines := layout.GreedyWrap(content, width, measure, wrap)
	for i := range lines {
		lines[i].Height = lineHeight
	}
	return lines, nil
}

func (s stubBackend) Render(res *layout.Result) ([]byte, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return []byte(fmt.Sprintf("%%PDF-stub pages=%d", len(res.Pages))), nil
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

func sampleSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.Parse([]byte(`{
  "quote_id": "Q-7",
  "project_id": "PRJ 17",
  "premium": 57800,
  "project": {"name": "Marina Tower"},
  "contract_structure": {"sub_contractors": ["Acme Co", "Beta LLC"]}
}`))
	require.NoError(t, err)
	return snap
}

func TestSnapshotCurrencyOverridesConfigured(t *testing.T) {
	snap, err := snapshot.Parse([]byte(`{"currency": "usd", "premium": 57800}`))
	require.NoError(t, err)

	g := NewGenerator(stubBackend{charWidth: 1}, Options{Formatter: assemble.NewFormatter("EUR", ""), Now: fixedNow})
	records := g.Records(snap, nil)
	assert.Equal(t, "USD 57,800/- including policy fees", records[9].Value)

	snap.Currency = ""
	records = g.Records(snap, nil)
	assert.Equal(t, "EUR 57,800/- including policy fees", records[9].Value)

	records = NewGenerator(stubBackend{charWidth: 1}, Options{Now: fixedNow}).Records(snap, nil)
	assert.Equal(t, "AED 57,800/- including policy fees", records[9].Value)
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "Contractors_All_Risks_Quote_PRJ-17_2026-01-05.pdf", Filename("PRJ-17", at))
	assert.Equal(t, "Contractors_All_Risks_Quote_CAR_2026-01-05.pdf", Filename("", at))
	assert.Equal(t, "Contractors_All_Risks_Quote_CAR_2026-01-05.pdf", Filename("  ", at))
	assert.Equal(t, "Contractors_All_Risks_Quote_a_b_2026-01-05.pdf", Filename("a/b", at))
}

func TestGenerate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := NewGenerator(stubBackend{charWidth: 1.5}, Options{Logger: zap.New(core), Now: fixedNow})

	art, err := g.Generate(sampleSnapshot(t), nil)
	require.NoError(t, err)

	_, err = uuid.Parse(art.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Contractors_All_Risks_Quote_PRJ_17_2026-10-19.pdf", art.Filename)
	assert.True(t, strings.HasPrefix(string(art.Data), "%PDF"))
	require.Len(t, art.Records, 15)
	assert.Equal(t, "AED 57,800/- including policy fees", art.Records[9].Value)
	assert.Equal(t, "30 days from 19/10/2026", art.Records[13].Value)

	require.NotEmpty(t, art.Result.Pages)
	assert.Equal(t, "Quotation Q-7", art.Result.Meta.Subject)
	assert.Equal(t, "Contractors All Risks Quotation", art.Result.Meta.Title)

	entries := logs.FilterMessage("quote generated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, art.ID, fields["generation_id"])
	assert.EqualValues(t, 15, fields["records"])
}

func TestGenerateFooterBindsSnapshotValues(t *testing.T) {
	brand := branding.Defaults()
	brand.ShowRegulatoryInfo = true
	brand.RegulatoryInfoText = "Quote ${quote_id} for ${project.name}, owner ${project.owner}."

	g := NewGenerator(stubBackend{charWidth: 1}, Options{Now: fixedNow})
	art, err := g.Generate(sampleSnapshot(t), &brand)
	require.NoError(t, err)

	var footerText []string
	for _, tb := range art.Result.Pages[0].Footer.Texts {
		for _, ln := range tb.Lines {
			footerText = append(footerText, ln.Content)
		}
	}
	joined := strings.Join(footerText, " ")
	assert.Contains(t, joined, "Quote Q-7 for Marina Tower, owner N/A.")
	assert.Contains(t, joined, "Page 1 of")
}

func TestGenerateNilSnapshotUsesPlaceholders(t *testing.T) {
	g := NewGenerator(stubBackend{charWidth: 1}, Options{Now: fixedNow})
	art, err := g.Generate(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Contractors_All_Risks_Quote_CAR_2026-10-19.pdf", art.Filename)
	assert.Equal(t, assemble.NotApplicable, art.Records[0].Value)
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewGenerator(nil, Options{}).Generate(nil, nil)
	assert.ErrorIs(t, err, ErrNoBackend)

	boom := errors.New("boom")
	_, err = NewGenerator(stubBackend{charWidth: 1, renderErr: boom}, Options{Now: fixedNow}).Generate(nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateDeterministicAndConcurrent(t *testing.T) {
	g := NewGenerator(stubBackend{charWidth: 1.2}, Options{Now: fixedNow})
	snap := sampleSnapshot(t)

	const n = 8
	arts := make([]*Artifact, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			art, err := g.Generate(snap, nil)
			if err == nil {
				arts[i] = art
			}
		}(i)
	}
	wg.Wait()

	ids := map[string]bool{}
	for i, art := range arts {
		require.NotNil(t, art, "generation %d failed", i)
		ids[art.ID] = true
		assert.Equal(t, len(arts[0].Result.Pages), len(art.Result.Pages))
		assert.Equal(t, arts[0].Filename, art.Filename)
		for p := range art.Result.Pages {
			for r, row := range art.Result.Pages[p].Rows {
				assert.Equal(t, arts[0].Result.Pages[p].Rows[r].Height, row.Height)
			}
		}
	}
	assert.Len(t, ids, n)
}

func TestArtifactSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	art := &Artifact{Filename: "x.pdf", Data: []byte("%PDF")}
	path, err := art.Save(dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}
