package lang

import (
	"sort"

	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/grammar/symbol"
)

var keywordTerminals = map[string]string{
	"recipe": TermRecipe,
	"put":    TermPut,
	"return": TermReturn,
	"if":     TermIf,
	"else":   TermElse,
	"while":  TermWhile,
	"true":   TermTrue,
	"false":  TermFalse,
}

// reservedWords are keywords of the lexer that the grammar does not use yet.
var reservedWords = []string{
	"for",
	"break",
	"continue",
	"nil",
}

// forbiddenWords are identifiers of older dialects. The lexer rejects them.
var forbiddenWords = []string{
	"let",
	"var",
	"function",
}

var symbolTerminals = map[string]string{
	"(":  TermLParen,
	")":  TermRParen,
	"{":  TermLBrace,
	"}":  TermRBrace,
	",":  TermComma,
	";":  TermSemicolon,
	"=":  TermAssign,
	"+":  TermPlus,
	"-":  TermMinus,
	"*":  TermStar,
	"/":  TermSlash,
	"%":  TermPercent,
	"!":  TermBang,
	"==": TermEq,
	"!=": TermNeq,
	"<":  TermLT,
	">":  TermGT,
	"<=": TermLE,
	">=": TermGE,
	"&&": TermAnd,
	"||": TermOr,
}

var punctuation = map[string]bool{
	"(": true,
	")": true,
	"{": true,
	"}": true,
	",": true,
	";": true,
}

// LexSpec returns the lexical specification of Recipe.
func LexSpec() *lexer.Spec {
	spec := &lexer.Spec{
		Forbidden:   append([]string{}, forbiddenWords...),
		LineComment: "//",
	}
	for word := range keywordTerminals {
		spec.Keywords = append(spec.Keywords, word)
	}
	spec.Keywords = append(spec.Keywords, reservedWords...)
	for lexeme := range symbolTerminals {
		if punctuation[lexeme] {
			spec.Punctuation = append(spec.Punctuation, lexeme)
		} else {
			spec.Operators = append(spec.Operators, lexeme)
		}
	}
	sort.Strings(spec.Keywords)
	sort.Strings(spec.Operators)
	sort.Strings(spec.Punctuation)
	return spec
}

// NewLexer compiles the Recipe lexer.
func NewLexer(opts ...lexer.LexerOption) (*lexer.Lexer, error) {
	return lexer.NewLexer(LexSpec(), opts...)
}

// Mapper maps Recipe tokens to the terminals of the Recipe grammar. It has no state.
type Mapper struct{}

func (Mapper) Terminal(tok *lexer.Token) (string, error) {
	switch tok.Kind {
	case lexer.KindEOF:
		return symbol.SymbolNameEOF, nil
	case lexer.KindIdentifier:
		return TermID, nil
	case lexer.KindNumber:
		return TermNumber, nil
	case lexer.KindString:
		return TermString, nil
	case lexer.KindKeyword:
		if term, ok := keywordTerminals[tok.Text]; ok {
			return term, nil
		}
	case lexer.KindOperator, lexer.KindPunctuation:
		if term, ok := symbolTerminals[tok.Text]; ok {
			return term, nil
		}
	}
	return "", &verr.MappingError{
		Position: tok.Position(),
		Kind:     tok.Kind.String(),
		Text:     tok.Text,
	}
}
