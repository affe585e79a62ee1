package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/quotedoc/layout"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("company_name: Acme Brokers\nunknown_option: 42\n"))
	require.NoError(t, err)

	assert.Equal(t, "Acme Brokers", cfg.CompanyName)
	assert.Equal(t, DefaultHeaderBg, cfg.HeaderBgColor)
	assert.Equal(t, DefaultFooterBg, cfg.FooterBgColor)
	assert.Equal(t, "left", cfg.LogoPosition)
	assert.True(t, cfg.ShowFooter)
	assert.Equal(t, 30, cfg.ValidityDays)
}

func TestParseReplacesInvalidValues(t *testing.T) {
	cfg, err := Parse([]byte(`{"header_bg_color": "navy", "logo_position": "Center", "validity_days": -3, "show_footer": false}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultHeaderBg, cfg.HeaderBgColor)
	assert.Equal(t, "center", cfg.LogoPosition)
	assert.Equal(t, DefaultValidity, cfg.ValidityDays)
	assert.False(t, cfg.ShowFooter)
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"header_bg_color": "#112233",
		"contact_info":    map[string]any{"email": "info@acme.test", "phone": "+971 4 000 0000"},
	})
	require.NoError(t, err)

	assert.Equal(t, "#112233", cfg.HeaderBgColor)
	assert.Equal(t, []string{"Email: info@acme.test", "Tel: +971 4 000 0000"}, cfg.ContactLine())
}

func TestFooterParagraphs(t *testing.T) {
	cfg := Defaults()
	cfg.GeneralDisclaimerText = "Subject to policy wording."
	cfg.RegulatoryInfoText = "Regulated by the Insurance Authority."
	assert.Empty(t, cfg.FooterParagraphs())

	cfg.ShowGeneralDisclaimer = true
	cfg.ShowRegulatoryInfo = true
	assert.Equal(t, []string{"Subject to policy wording.", "Regulated by the Insurance Authority."}, cfg.FooterParagraphs())
}

func TestChrome(t *testing.T) {
	cfg := Defaults()
	cfg.CompanyName = "Acme Brokers"
	chrome := cfg.Chrome("Contractors All Risks Quotation", "19/10/2026", []string{"p1"})

	assert.Equal(t, layout.Color{R: 0, G: 64, B: 128}, chrome.Letterhead.Background)
	assert.Equal(t, layout.Color{R: 255, G: 255, B: 255}, chrome.Letterhead.TextColor)
	assert.Equal(t, "left", chrome.Letterhead.Align)
	assert.True(t, chrome.Footer.Show)
	assert.Equal(t, layout.Color{R: 242, G: 242, B: 242}, chrome.Footer.Background)
	assert.Equal(t, layout.Color{R: 64, G: 64, B: 64}, chrome.Footer.TextColor)
	assert.Equal(t, []string{"p1"}, chrome.Footer.Paragraphs)
}
