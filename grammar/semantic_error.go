package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrNoStartSymbol       = newSemanticError("a grammar needs a start symbol")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrReservedName        = newSemanticError("reserved symbol name")
	semErrEmptyNotAlone       = newSemanticError("ε must be the only symbol of a body")
	semErrStartNotNonTerminal = newSemanticError("the start symbol must be a non-terminal")
	semErrNonTermNoProduction = newSemanticError("a reachable non-terminal has no production")
	semErrLeftRecursion       = newSemanticError("left recursion cannot be parsed by an LL(1) parser")
)
