package cheader

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// HeaderLexer tokenizes the subset of C used by generated register headers.
var HeaderLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Preprocessor directives, e.g. #ifndef
	{Name: "Directive", Pattern: `#[a-zA-Z]+`},

	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Semicolon", Pattern: `;`},

	{Name: "Integer", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
