// Package naming turns user notations such as "x", "\alpha" or "F_{g}" into
// LaTeX display names and MATLAB-safe identifiers, and keeps the mapping from
// symbol keys to printable names that the MATLAB printer consults.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotation reports a notation that cannot be turned into a name.
var ErrNotation = errors.New("naming: invalid notation")

var (
	latexCommand = regexp.MustCompile(`^\\[a-zA-Z]+`)
	superscript  = regexp.MustCompile(`\^[a-zA-Z0-9{}]+`)
	subscript    = regexp.MustCompile(`_[a-zA-Z0-9{}]+`)
	markup       = regexp.MustCompile(`[{}^_]`)
	unsafeChars  = strings.NewReplacer("_", "", "{", "", "}", "", `\`, "", "^", "")
)

// Notation returns the display name and the MATLAB identifier of one
// symbol. index numbers the symbol within a vector, 0 meaning unnumbered;
// order is its time derivative order.
//
//	Notation("x", 1, 0)  // x_{1}, x1
//	Notation("x", 1, 1)  // \dot{x}_{1}, x1dot
//	Notation("x", 2, 3)  // x_{2}^{(3)}, x2dddot
func Notation(notation string, index, order int) (display, safe string, err error) {
	if notation == "" {
		return "", "", fmt.Errorf("%w: empty notation", ErrNotation)
	}
	if index < 0 || order < 0 {
		return "", "", fmt.Errorf("%w: negative index %d or order %d for %q", ErrNotation, index, order, notation)
	}

	var head, rest string
	if notation[0] == '\\' {
		head = latexCommand.FindString(notation)
		if head == "" {
			return "", "", fmt.Errorf("%w: %q is not a LaTeX command", ErrNotation, notation)
		}
		rest = strings.Replace(notation, head, "", 1)
	} else {
		head, rest = notation[:1], notation[1:]
	}

	var sup, sub string
	if m := superscript.FindString(notation); m != "" {
		rest = strings.Replace(rest, m, "", 1)
		sup = markup.ReplaceAllString(m, "")
	}
	if m := subscript.FindString(notation); m != "" {
		rest = strings.Replace(rest, m, "", 1)
		sub = markup.ReplaceAllString(m, "")
	}

	var b strings.Builder
	switch order {
	case 1:
		fmt.Fprintf(&b, `\dot{%s}%s`, head, rest)
	case 2:
		fmt.Fprintf(&b, `\ddot{%s}%s`, head, rest)
	default:
		b.WriteString(head + rest)
	}

	switch {
	case index != 0 && sub != "":
		fmt.Fprintf(&b, "_{{%s}_{%d}}", sub, index)
	case index != 0:
		fmt.Fprintf(&b, "_{%d}", index)
	case sub != "":
		fmt.Fprintf(&b, "_{%s}", sub)
	}

	switch {
	case order > 2 && sup != "":
		fmt.Fprintf(&b, `^{%s\ ^{(%d)}}`, sup, order)
	case order > 2:
		fmt.Fprintf(&b, "^{(%d)}", order)
	case sup != "":
		fmt.Fprintf(&b, "^{%s}", sup)
	}

	raw := notation
	if index != 0 {
		raw += fmt.Sprint(index)
	}
	if order > 0 {
		raw += strings.Repeat("d", order) + "ot"
	}
	return b.String(), unsafeChars.Replace(raw), nil
}
