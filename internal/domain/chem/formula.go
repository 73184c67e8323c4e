package chem

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// Species is the result of parsing a solid or ion formula.
type Species struct {
	Composition Composition
	Charge      float64
	// Ion is true when the formula carried a charge or an "(aq)" suffix.
	Ion bool
}

var (
	bracketCharge  = regexp.MustCompile(`\[([^\[\]]*)\]`)
	bracketContent = regexp.MustCompile(`^([0-9]*\.?[0-9]*)([+-]+)([0-9]*\.?[0-9]*)$`)
	trailingCharge = regexp.MustCompile(`([+-])([0-9]*\.?[0-9]*)`)
)

// ParseFormula parses formulas such as "Fe2O3", "Fe(OH)3(s)", "Fe[2+]",
// "Fe[+2]", "FeO2[-]", "HFeO2[--]", "Fe+3" and "FeOH(aq)".
func ParseFormula(formula string) (Species, error) {
	f := strings.TrimSpace(formula)
	if f == "" {
		return Species{}, errors.New(errors.ErrCodeFormulaInvalid, "formula is empty")
	}

	var sp Species
	if strings.HasSuffix(f, "(aq)") {
		f = strings.TrimSuffix(f, "(aq)")
		sp.Ion = true
	} else if strings.HasSuffix(f, "(s)") {
		f = strings.TrimSuffix(f, "(s)")
	}

	if m := bracketCharge.FindStringSubmatchIndex(f); m != nil {
		q, err := parseBracketCharge(f[m[2]:m[3]])
		if err != nil {
			return Species{}, err.WithDetail(formula)
		}
		sp.Charge += q
		sp.Ion = true
		f = f[:m[0]] + f[m[1]:]
	}

	for _, m := range trailingCharge.FindAllStringSubmatch(f, -1) {
		sign := 1.0
		if m[1] == "-" {
			sign = -1
		}
		if m[2] == "" {
			sp.Charge += sign
		} else {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return Species{}, errors.New(errors.ErrCodeChargeInvalid, "invalid charge").WithDetail(formula)
			}
			sp.Charge += sign * v
		}
		sp.Ion = true
	}
	f = trailingCharge.ReplaceAllString(f, "")

	p := &formulaParser{src: f}
	comp, err := p.parseGroup(0)
	if err != nil {
		return Species{}, err.WithDetail(formula)
	}
	if p.pos != len(p.src) {
		return Species{}, errors.New(errors.ErrCodeFormulaInvalid, "unbalanced parenthesis").WithDetail(formula)
	}
	sp.Composition = NewComposition(comp)
	if len(sp.Composition) == 0 {
		return Species{}, errors.New(errors.ErrCodeFormulaInvalid, "formula contains no elements").WithDetail(formula)
	}
	return sp, nil
}

func parseBracketCharge(s string) (float64, *errors.AppError) {
	m := bracketContent.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.New(errors.ErrCodeChargeInvalid, "invalid charge bracket")
	}
	lead, signs, trail := m[1], m[2], m[3]
	if lead != "" && trail != "" {
		return 0, errors.New(errors.ErrCodeChargeInvalid, "charge has magnitude on both sides of sign")
	}
	if num := lead + trail; num != "" {
		if len(signs) != 1 {
			return 0, errors.New(errors.ErrCodeChargeInvalid, "repeated sign with magnitude")
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeChargeInvalid, "invalid charge magnitude")
		}
		if signs == "-" {
			v = -v
		}
		return v, nil
	}
	q := 0.0
	for _, r := range signs {
		if r == '+' {
			q++
		} else {
			q--
		}
	}
	return q, nil
}

type formulaParser struct {
	src string
	pos int
}

func (p *formulaParser) parseGroup(depth int) (map[string]float64, *errors.AppError) {
	out := make(map[string]float64)
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		switch {
		case unicode.IsSpace(c):
			p.pos++
		case c == '(':
			p.pos++
			inner, err := p.parseGroup(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return nil, errors.New(errors.ErrCodeFormulaInvalid, "unbalanced parenthesis")
			}
			p.pos++
			n, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			for el, amt := range inner {
				out[el] += amt * n
			}
		case c == ')':
			if depth == 0 {
				return nil, errors.New(errors.ErrCodeFormulaInvalid, "unbalanced parenthesis")
			}
			return out, nil
		case unicode.IsUpper(c):
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && unicode.IsLower(rune(p.src[p.pos])) {
				p.pos++
			}
			sym := p.src[start:p.pos]
			if !IsElement(sym) {
				return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element "+sym)
			}
			n, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			out[sym] += n
		default:
			return nil, errors.Newf(errors.ErrCodeFormulaInvalid, "unexpected character %q", c)
		}
	}
	return out, nil
}

func (p *formulaParser) parseCount() (float64, *errors.AppError) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 1, nil
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeFormulaInvalid, "invalid count "+p.src[start:p.pos])
	}
	return v, nil
}

//Personal.AI order the ending
