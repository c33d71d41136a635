package dsl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
)

// Op is a comparison operator in an infix expression.
type Op string

const (
	OpGT  Op = ">"
	OpLT  Op = "<"
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpEQ  Op = "=="
	OpNEQ Op = "!="
)

// Term is either an indicator alias or a numeric literal.
type Term struct {
	Alias     string
	Literal   float64
	IsLiteral bool
}

// Comparison is a parsed "<term> <op> <term>" predicate.
type Comparison struct {
	Left  Term
	Op    Op
	Right Term
}

var aliasPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// two-char operators first so ">=" never parses as ">" followed by "="
var operatorOrder = []Op{OpGTE, OpLTE, OpEQ, OpNEQ, OpGT, OpLT}

// ParseComparison parses a whitespace-insensitive infix comparison such
// as "fast > slow" or "RSI <= 30".
func ParseComparison(expr string) (*Comparison, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, engineerr.New(engineerr.KindSchemaInvalid, "compare", "expression is empty")
	}

	for _, op := range operatorOrder {
		idx := strings.Index(trimmed, string(op))
		if idx < 0 {
			continue
		}
		left, err := parseTerm(trimmed[:idx])
		if err != nil {
			return nil, err
		}
		right, err := parseTerm(trimmed[idx+len(op):])
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Op: op, Right: right}, nil
	}

	return nil, engineerr.New(engineerr.KindSchemaInvalid, "compare", "no comparison operator in %q", expr)
}

func parseTerm(raw string) (Term, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Term{}, engineerr.New(engineerr.KindSchemaInvalid, "compare", "missing term")
	}
	if aliasPattern.MatchString(s) {
		return Term{Alias: s}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Term{}, engineerr.New(engineerr.KindSchemaInvalid, "compare", "term %q is neither an alias nor a number", s)
	}
	return Term{Literal: v, IsLiteral: true}, nil
}

// Aliases returns the alias terms the comparison references.
func (c *Comparison) Aliases() []string {
	var out []string
	for _, t := range []Term{c.Left, c.Right} {
		if !t.IsLiteral {
			out = append(out, t.Alias)
		}
	}
	return out
}

// Holds evaluates the predicate against resolved term values. A missing
// value on either side makes the predicate false, never an error.
func (c *Comparison) Holds(resolve func(alias string) (float64, bool)) bool {
	left, ok := c.resolveTerm(c.Left, resolve)
	if !ok {
		return false
	}
	right, ok := c.resolveTerm(c.Right, resolve)
	if !ok {
		return false
	}
	switch c.Op {
	case OpGT:
		return left > right
	case OpLT:
		return left < right
	case OpGTE:
		return left >= right
	case OpLTE:
		return left <= right
	case OpEQ:
		return left == right
	case OpNEQ:
		return left != right
	}
	return false
}

func (c *Comparison) resolveTerm(t Term, resolve func(alias string) (float64, bool)) (float64, bool) {
	if t.IsLiteral {
		return t.Literal, true
	}
	return resolve(t.Alias)
}
