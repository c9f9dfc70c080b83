package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
}

// SetEntry is one row of the FIRST or FOLLOW view. Members are sorted by name with ε last.
type SetEntry struct {
	Symbol  string   `json:"symbol"`
	Members []string `json:"members"`
}

type TableEntry struct {
	NonTerminal string `json:"non_terminal"`
	Terminal    string `json:"terminal"`
	Production  int    `json:"production"`
	Rendering   string `json:"rendering"`
}

// Conflict describes a cell claimed by more than one production. The adopted production was
// declared first; the dropped one is ignored by the parser.
type Conflict struct {
	NonTerminal       string `json:"non_terminal"`
	Terminal          string `json:"terminal"`
	AdoptedProduction int    `json:"adopted_production"`
	DroppedProduction int    `json:"dropped_production"`
}

type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	First        []*SetEntry    `json:"first"`
	Follow       []*SetEntry    `json:"follow"`
	Table        []*TableEntry  `json:"table"`
	Conflicts    []*Conflict    `json:"conflicts"`
}

func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
