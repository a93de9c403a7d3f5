package matlab

import "strings"

// Element is one piece of a generated file. A file's content is its
// elements' code concatenated in order.
type Element interface {
	GenerateCode() string
}

// StringElement is literal text indented by a number of tabs.
type StringElement struct {
	text   string
	indent int
}

func NewStringElement(text string, indent int) *StringElement {
	return &StringElement{text: text, indent: indent}
}

// GenerateCode indents the first line and every line after a newline.
// Trailing tabs are dropped so text ending in a newline leaves no stray
// indentation behind.
func (s *StringElement) GenerateCode() string {
	prefix := strings.Repeat("\t", s.indent)
	out := prefix + strings.ReplaceAll(s.text, "\n", "\n"+prefix)
	return strings.TrimRight(out, "\t")
}

func render(elems []Element) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(e.GenerateCode())
	}
	return sb.String()
}
