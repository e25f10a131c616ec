package cheader

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser reads generated register headers back into a HeaderFile. It accepts
// only the C subset the generator emits: an include guard, a single typedef'd
// struct of fixed-width integer members or arrays, and comments.
//
// A parse error means the file is not a register header at all. A header that
// parses but is laid out wrong is reported by Check instead.
type Parser struct {
	parser *participle.Parser[HeaderFile]
}

// NewParser builds the header grammar. Comments and whitespace are dropped
// before parsing.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[HeaderFile](
		participle.Lexer(HeaderLexer),
		participle.Elide("LineComment", "BlockComment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("cheader: build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads one header from r.
func (p *Parser) Parse(r io.Reader) (*HeaderFile, error) {
	return p.parse("", func(name string) (*HeaderFile, error) {
		return p.parser.Parse(name, r)
	})
}

// ParseString parses header text, as returned by Generator.Generate.
func (p *Parser) ParseString(input string) (*HeaderFile, error) {
	return p.parse("", func(name string) (*HeaderFile, error) {
		return p.parser.ParseString(name, input)
	})
}

// ParseFile parses the header at path. Error positions name the file.
func (p *Parser) ParseFile(path string) (*HeaderFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cheader: %w", err)
	}
	defer file.Close()

	return p.parse(path, func(name string) (*HeaderFile, error) {
		return p.parser.Parse(name, file)
	})
}

func (p *Parser) parse(name string, fn func(string) (*HeaderFile, error)) (*HeaderFile, error) {
	hdr, err := fn(name)
	if err != nil {
		return nil, fmt.Errorf("cheader: parse error: %w", err)
	}
	return hdr, nil
}
