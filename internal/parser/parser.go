// Package parser turns the token stream into a syntax tree. It is a
// hand-written recursive-descent parser with local error recovery: every
// parse produces a complete script node, and nodes that could not be fully
// read carry FlagHasParseError plus synthetic placeholders so later phases
// do not re-report the same location.
package parser

import (
	"fmt"

	"cadl/internal/ast"
	"cadl/internal/diag"
	"cadl/internal/lexer"
	"cadl/internal/source"
	"cadl/internal/token"
)

// Options configure a single-file parse.
type Options struct {
	Reporter diag.Reporter
}

// Parser holds the state for one file.
type Parser struct {
	lx   *lexer.Lexer
	opts Options

	script *ast.ScriptNode

	// tok is the current lookahead; newlines are skipped while filling it
	// unless newlineSignificant is set (directive parsing).
	tok                token.Token
	haveTok            bool
	newlineSignificant bool

	lastSpan     source.Span // span of the last consumed token
	lastErrorPos uint32      // dedupes errors at one real position
	hasLastError bool
	missingSeq   int // unique synthetic identifier counter
}

// ParseFile parses one file into a script node. The returned script is
// complete even when the source has errors.
func ParseFile(lx *lexer.Lexer, opts Options) *ast.ScriptNode {
	p := &Parser{
		lx:   lx,
		opts: opts,
	}
	p.script = &ast.ScriptNode{
		NodeBase:  ast.NodeBase{Kind: ast.KindScript},
		Path:      lx.File().Path,
		Printable: true,
	}
	p.parseScript()
	return p.script
}

// --- token cursor -----------------------------------------------------

func (p *Parser) peek() token.Token {
	if !p.haveTok {
		p.tok = p.nextRaw()
		p.haveTok = true
	}
	return p.tok
}

func (p *Parser) nextRaw() token.Token {
	for {
		t := p.lx.Next()
		if t.Kind == token.Newline && !p.newlineSignificant {
			continue
		}
		return t
	}
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	p.haveTok = false
	if t.Kind != token.EOF {
		p.lastSpan = t.Span
	}
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// expect consumes a token of kind k, or reports missing-token at the end
// of the previous token and synthesizes nothing. Missing punctuation also
// clears the script's printable flag.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.script.Printable = false
	p.errAt(diag.SynMissingToken, p.lastSpan.Collapse(),
		fmt.Sprintf("expected %s, found %s", k, p.peek().Kind))
	return token.Token{Kind: k, Span: p.lastSpan.Collapse()}, false
}

// --- diagnostics ------------------------------------------------------

// errAt reports an error unless one was already reported at the same real
// position.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.hasLastError && sp.Start == p.lastErrorPos {
		return
	}
	p.hasLastError = true
	p.lastErrorPos = sp.Start
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

func (p *Parser) warnAt(code diag.Code, sp source.Span, msg string) {
	diag.ReportWarning(p.opts.Reporter, code, sp, msg)
}

// --- identifiers ------------------------------------------------------

// parseIdent consumes an identifier. On failure it reports and returns a
// synthetic missing identifier with a unique non-source name.
func (p *Parser) parseIdent() *ast.IdentifierNode {
	if p.at(token.Ident) {
		t := p.advance()
		return &ast.IdentifierNode{
			NodeBase: ast.NodeBase{Kind: ast.KindIdentifier, Span: t.Span},
			Value:    t.Text,
		}
	}
	if p.peek().IsKeyword() {
		t := p.advance()
		p.errAt(diag.SynReservedIdentifier, t.Span,
			fmt.Sprintf("keyword %s cannot be used as an identifier", t.Kind))
		return &ast.IdentifierNode{
			NodeBase: ast.NodeBase{Kind: ast.KindIdentifier, Span: t.Span, Flags: ast.FlagHasParseError},
			Value:    t.Text,
		}
	}
	sp := p.lastSpan.Collapse()
	p.errAt(diag.SynMissingToken, sp, fmt.Sprintf("expected identifier, found %s", p.peek().Kind))
	return p.missingIdent(sp)
}

func (p *Parser) missingIdent(sp source.Span) *ast.IdentifierNode {
	p.missingSeq++
	p.script.Printable = false
	return &ast.IdentifierNode{
		NodeBase: ast.NodeBase{
			Kind:  ast.KindIdentifier,
			Span:  sp,
			Flags: ast.FlagSynthetic | ast.FlagHasParseError,
		},
		Value: fmt.Sprintf("<missing identifier>%d", p.missingSeq),
	}
}

// --- delimited list driver -------------------------------------------

// listOptions parameterize the shared list driver used by every
// comma/semicolon list in the grammar.
type listOptions struct {
	open      token.Kind
	close     token.Kind
	delimiter token.Kind
	// tolerated is accepted in place of delimiter with a warning.
	tolerated token.Kind
	// allowTrailing permits a delimiter right before close.
	allowTrailing bool
	// forbidDecorators rejects @ at item positions.
	forbidDecorators bool
}

// parseList runs the shared delimited-list loop. parseItem must consume at
// least one token on success. The driver always terminates: an iteration
// that consumes nothing logs a single list-stall error and exits.
func (p *Parser) parseList(opts listOptions, parseItem func(pre statementPrelude) bool) {
	if opts.open != token.Invalid {
		p.expect(opts.open)
	}

	for {
		if p.at(opts.close) || p.at(token.EOF) {
			break
		}

		startOff := p.peek().Span.Start

		pre := p.parsePrelude(opts.forbidDecorators)
		if p.at(opts.close) || p.at(token.EOF) {
			p.reportStrayPrelude(pre)
			break
		}

		ok := parseItem(pre)

		sawDelimiter := false
		switch {
		case p.at(opts.delimiter):
			p.advance()
			sawDelimiter = true
		case opts.tolerated != token.Invalid && p.at(opts.tolerated):
			t := p.advance()
			p.warnAt(diag.SynWrongDelimiter,
				t.Span, fmt.Sprintf("expected %s, found %s", opts.delimiter, opts.tolerated))
			sawDelimiter = true
		}

		if sawDelimiter && !opts.allowTrailing && p.at(opts.close) {
			p.errAt(diag.SynTrailingDelimiter, p.lastSpan,
				fmt.Sprintf("trailing %s is not allowed here", opts.delimiter))
		}

		if !sawDelimiter && !p.at(opts.close) && !p.at(token.EOF) {
			// Stall guard: the iteration consumed nothing, regardless of
			// what the item callback claims. Skip a token and retry.
			if p.peek().Span.Start == startOff {
				p.errAt(diag.SynListStall, p.peek().Span,
					fmt.Sprintf("unexpected %s in list", p.peek().Kind))
				p.advance()
				continue
			}
			if ok {
				p.script.Printable = false
				p.errAt(diag.SynMissingToken, p.lastSpan.Collapse(),
					fmt.Sprintf("expected %s, found %s", opts.delimiter, p.peek().Kind))
			}
		}
	}

	if opts.close != token.Invalid {
		p.expect(opts.close)
	}
}
