package verbalize

import "sort"

type rule struct {
	pat    string
	spoken string
}

// symbolRules maps markup commands and operator symbols to spoken phrases.
// Rules are applied longest-pattern-first so a command is never matched as a
// prefix of a longer one (\in vs \int vs \infty).
var symbolRules = buildSymbolRules()

func buildSymbolRules() []rule {
	rules := []rule{
		{`\alpha`, "alpha"},
		{`\beta`, "beta"},
		{`\gamma`, "gamma"},
		{`\delta`, "delta"},
		{`\epsilon`, "epsilon"},
		{`\zeta`, "zeta"},
		{`\eta`, "eta"},
		{`\theta`, "theta"},
		{`\lambda`, "lambda"},
		{`\mu`, "mu"},
		{`\pi`, "pi"},
		{`\rho`, "rho"},
		{`\sigma`, "sigma"},
		{`\tau`, "tau"},
		{`\phi`, "phi"},
		{`\omega`, "omega"},
		{`\Delta`, "capital delta"},
		{`\Sigma`, "capital sigma"},
		{`\Omega`, "capital omega"},
		{`\infty`, "infinity"},
		{`\partial`, "the partial derivative of"},
		{`\nabla`, "nabla"},
		{`\sum`, "the sum of"},
		{`\prod`, "the product of"},
		{`\int`, "the integral of"},
		{`\sqrt`, "square root of"},
		{`\times`, "times"},
		{`\cdot`, "times"},
		{`\pm`, "plus or minus"},
		{`\leq`, "less than or equal to"},
		{`\geq`, "greater than or equal to"},
		{`\neq`, "not equal to"},
		{`\approx`, "approximately equal to"},
		{`\rightarrow`, "goes to"},
		{`\to`, "goes to"},
		{`\in`, "in"},
		{`\log`, "log of"},
		{`\ln`, "natural log of"},
		{`\exp`, "the exponential of"},
		{`\sin`, "sine of"},
		{`\cos`, "cosine of"},
		{`\tan`, "tangent of"},
		{`=`, "equals"},
		{`+`, "plus"},
		{`*`, "times"},
		{`/`, "divided by"},
		{`<`, "less than"},
		{`>`, "greater than"},
		{`-`, "minus"},
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].pat) > len(rules[j].pat)
	})
	return rules
}

// spokenOperators is the symbolic tier's operator mapping, applied to an
// already-validated token stream in left-to-right order.
var spokenOperators = map[string]string{
	"^": "to the power of",
	"*": "times",
	"/": "divided by",
	"+": "plus",
	"-": "minus",
	"=": "equals",
	"<": "less than",
	">": "greater than",
}
