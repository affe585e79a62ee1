package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/quotedoc/dsl"
)

const sampleDSL = `
template Acme v1 {
  meta {
    title: "Contractors All Risks Quotation"
    keywords: [
      "car"
      "quotation"
    ]
  }

  branding {
    company_name: "Acme Insurance Brokers"
    header_bg_color: #004080
    show_footer: true
    validity_days: 45
    contact_info: { email: "info@acme.test"; phone: "+971 4 000 0000" }

    disclaimer {
      "This quotation is subject to the policy wording."
      "Quote ${quote_id} for project ${project.name}."
    }
  }

  page A4 portrait margin 15mm {
    header_height: 42mm
    line_height: 3.5mm
    label_ratio: 30%
    font_size: 8pt
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Acme" {
		t.Fatalf("expected template name Acme, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,branding,page" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Contractors All Risks Quotation" {
		t.Fatalf("unexpected title %s", got)
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array with 2 values, got %+v", keywords)
	}

	branding := doc.Sections[1].Branding
	values := branding.Block.Assignments()
	if values["company_name"] != "Acme Insurance Brokers" {
		t.Fatalf("unexpected company_name: %v", values["company_name"])
	}
	if values["header_bg_color"] != "#004080" {
		t.Fatalf("color should be captured verbatim, got %v", values["header_bg_color"])
	}
	if values["show_footer"] != true {
		t.Fatalf("show_footer should be bool true, got %#v", values["show_footer"])
	}
	if values["validity_days"] != 45 {
		t.Fatalf("validity_days should be int 45, got %#v", values["validity_days"])
	}
	contact, ok := values["contact_info"].(map[string]any)
	if !ok || contact["email"] != "info@acme.test" || contact["phone"] != "+971 4 000 0000" {
		t.Fatalf("unexpected contact_info: %#v", values["contact_info"])
	}

	var disclaimer *dsl.Command
	for _, st := range branding.Block.Statements {
		if st.Command != nil && st.Command.Name == "disclaimer" {
			disclaimer = st.Command
		}
	}
	if disclaimer == nil || disclaimer.Block == nil || len(disclaimer.Block.Statements) != 2 {
		t.Fatalf("disclaimer command missing literal content: %+v", disclaimer)
	}
	if got := string(disclaimer.Block.Statements[1].Text.Value); !strings.Contains(got, "${project.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	page := doc.Sections[2].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 3 {
		t.Fatalf("expected 3 page params, got %d", len(page.Spec.Params))
	}
	if page.Spec.Params[0] != "portrait" || page.Spec.Params[2] != "15mm" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}
	pageValues := page.Block.Assignments()
	if pageValues["header_height"] != "42mm" || pageValues["label_ratio"] != "30%" {
		t.Fatalf("unexpected page assignments: %#v", pageValues)
	}
}

func TestParsePathAndBoolValues(t *testing.T) {
	doc, err := dsl.ParseString(`template T 2 {
  meta {
    subject: quote.project . name
    draft: false
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	subject := doc.Sections[0].Meta.Block.Statements[0].Assignment
	if got := strings.Join(subject.Value.Path, "."); got != "quote.project.name" {
		t.Fatalf("unexpected path: %q", got)
	}
	values := doc.Sections[0].Meta.Block.Assignments()
	if values["subject"] != "quote.project.name" {
		t.Fatalf("unexpected subject value: %#v", values["subject"])
	}
	if values["draft"] != false {
		t.Fatalf("draft should be bool false, got %#v", values["draft"])
	}
}

func TestParseColorLengths(t *testing.T) {
	doc, err := dsl.ParseString(`template T v1 {
  branding {
    a: #abc
    b: #004080
    c: #00408080 // trailing comment
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	values := doc.Sections[0].Branding.Block.Assignments()
	for key, want := range map[string]string{"a": "#abc", "b": "#004080", "c": "#00408080"} {
		if values[key] != want {
			t.Fatalf("%s: expected %s, got %#v", key, want, values[key])
		}
	}
}

func TestParseRejectsUnknownRoot(t *testing.T) {
	if _, err := dsl.ParseString(`doc Old v1 { }`); err == nil {
		t.Fatalf("expected error for unknown root keyword")
	}
}
