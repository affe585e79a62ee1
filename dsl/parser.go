package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	templateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 长的颜色写法必须排在前面，正则按先出现的分支匹配。
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][{}(),.;:]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(templateLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a quotation template.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'template' @Ident"`
	Version  string         `parser:"@(Ident | Number)"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/branding/page).
type Section struct {
	Meta     *MetaSection     `parser:"  @@"`
	Branding *BrandingSection `parser:"| @@"`
	Page     *PageSection     `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Branding != nil:
		return "branding"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection captures document metadata.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// BrandingSection carries letterhead/footer styling options.
type BrandingSection struct {
	Block *Block `parser:"'branding' @@"`
}

// PageSection describes page geometry and table metrics.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@"`
}

// PageSpec holds the header tokens, e.g. `A4 landscape margin 15mm`.
type PageSpec struct {
	Size   string   `parser:"@Ident"`
	Params []string `parser:"@(Ident | Number)*"`
}

// Block is a brace-delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':' Newline*"`
	Value *Value         `parser:"@@"`
}

// Command is a named instruction with optional arguments and body,
// e.g. `disclaimer { "..." }`.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []string       `parser:"@(Ident | Number | Color)*"`
	Block *Block         `parser:"@@?"`
}

// TextLiteral is a bare string statement.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value represents a property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Bool   *Boolean       `parser:"| @('true' | 'false')"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
	Path   []string       `parser:"| @Ident ( '.' @Ident )*"`
}

// ArrayValue captures `[ a, b ]`; commas, semicolons and newlines all separate items.
type ArrayValue struct {
	Values []*Value `parser:"'[' ( Newline | ',' | ';' )* ( @@ ( Newline | ',' | ';' )* )* ']'"`
}

// InlineObject captures `{ key: value; ... }`.
type InlineObject struct {
	Entries []*Assignment `parser:"'{' ( Newline | ',' | ';' )* ( @@ ( Newline | ',' | ';' )* )* '}'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures true/false keywords.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	*b = values[0] == "true"
	return nil
}

// Parse parses template content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses template content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
