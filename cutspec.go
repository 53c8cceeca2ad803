package zfinder

import (
	"fmt"
	"strconv"
	"strings"
)

// Variable is the kinematic quantity a comparison cut reads from an electron.
type Variable uint8

const (
	VarNone Variable = iota
	VarPt
	VarGenPt
	VarEta
	VarGenEta
	VarPhi
	VarGenPhi
	VarCharge
	VarGenCharge
)

var variableNames = [...]string{
	VarNone:      "none",
	VarPt:        "pt",
	VarGenPt:     "gpt",
	VarEta:       "eta",
	VarGenEta:    "geta",
	VarPhi:       "phi",
	VarGenPhi:    "gphi",
	VarCharge:    "charge",
	VarGenCharge: "gcharge",
}

func (v Variable) String() string {
	if int(v) < len(variableNames) {
		return variableNames[v]
	}
	return fmt.Sprintf("Variable(%d)", v)
}

// IsGen reports whether v is a generator-level (truth) quantity.
func (v Variable) IsGen() bool {
	switch v {
	case VarGenPt, VarGenEta, VarGenPhi, VarGenCharge:
		return true
	}
	return false
}

// variablePrefixes is checked in order. Generator forms come first so that
// "geta" is never classified by the bare "eta" entry.
var variablePrefixes = []struct {
	prefix string
	v      Variable
}{
	{"gpt", VarGenPt},
	{"pt", VarPt},
	{"geta", VarGenEta},
	{"eta", VarEta},
	{"gphi", VarGenPhi},
	{"phi", VarPhi},
	{"gcharge", VarGenCharge},
	{"charge", VarCharge},
}

// Operator is the relation a comparison cut applies against its threshold.
type Operator uint8

const (
	OpNone Operator = iota
	OpEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
)

var operatorNames = [...]string{
	OpNone: "",
	OpEQ:   "=",
	OpLT:   "<",
	OpLTE:  "<=",
	OpGT:   ">",
	OpGTE:  ">=",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("Operator(%d)", op)
}

// Compare applies op to lhs and rhs. OpNone never passes.
func (op Operator) Compare(lhs, rhs float64) bool {
	switch op {
	case OpEQ:
		return lhs == rhs
	case OpLT:
		return lhs < rhs
	case OpLTE:
		return lhs <= rhs
	case OpGT:
		return lhs > rhs
	case OpGTE:
		return lhs >= rhs
	}
	return false
}

// CutSpec is one parsed cut token. It is either a named boolean cut looked up
// on an electron's cut table, or a comparison of a kinematic variable against
// a threshold.
type CutSpec struct {
	Token        string
	Invert       bool
	IsComparison bool
	Variable     Variable
	Operator     Operator
	Threshold    float64
}

// Name is the token with any invert marker removed. For named cuts it is the
// key looked up on the electron.
func (c CutSpec) Name() string {
	return strings.TrimPrefix(c.Token, "!")
}

func (c CutSpec) String() string {
	return c.Token
}

// ParseCut converts a single cut token into a CutSpec.
//
// The operator precedence is fixed: the rightmost of '<' and '>' selects the
// relation ('>' on a tie), and an '=' anywhere in the token turns it into the
// inclusive form. A lone '=' is equality. The threshold is the text after the
// last operator character.
//
// A comparison whose variable is not in the vocabulary parses to VarNone and
// always fails when evaluated. A threshold that is not a number returns the
// populated spec with a zero threshold together with ErrMalformedThreshold.
func ParseCut(token string) (CutSpec, error) {
	spec := CutSpec{Token: token}

	body := token
	if strings.HasPrefix(body, "!") {
		spec.Invert = true
		body = body[1:]
	}
	if strings.TrimSpace(body) == "" {
		return spec, &ConfigurationError{Kind: ErrEmptyCut, Detail: fmt.Sprintf("cut token %q is empty", token)}
	}

	lt := strings.LastIndexByte(body, '<')
	gt := strings.LastIndexByte(body, '>')
	eq := strings.LastIndexByte(body, '=')
	if lt < 0 && gt < 0 && eq < 0 {
		return spec, nil
	}
	spec.IsComparison = true

	switch {
	case gt >= 0 && gt >= lt:
		spec.Operator = OpGT
		if eq >= 0 {
			spec.Operator = OpGTE
		}
	case lt >= 0:
		spec.Operator = OpLT
		if eq >= 0 {
			spec.Operator = OpLTE
		}
	default:
		spec.Operator = OpEQ
	}

	opStart, opEnd := len(body), -1
	for _, i := range []int{lt, gt, eq} {
		if i < 0 {
			continue
		}
		if i < opStart {
			opStart = i
		}
		if i > opEnd {
			opEnd = i
		}
	}

	lhs := strings.TrimSpace(body[:opStart])
	for _, p := range variablePrefixes {
		if strings.HasPrefix(lhs, p.prefix) {
			spec.Variable = p.v
			break
		}
	}

	rhs := strings.TrimSpace(body[opEnd+1:])
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return spec, &ConfigurationError{
			Kind:   ErrMalformedThreshold,
			Detail: fmt.Sprintf("cut %q: threshold %q is not a number", token, rhs),
		}
	}
	spec.Threshold = threshold

	return spec, nil
}
