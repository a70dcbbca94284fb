package verbalize

import (
	"strings"
)

// Verbalizer converts one math-markup string into a natural-language
// description. It is stateless and total: for input neither tier can handle
// it returns a verbatim fallback instead of failing.
type Verbalizer struct{}

func New() *Verbalizer {
	return &Verbalizer{}
}

// tierResult carries one conversion tier's outcome. A tier that cannot
// handle its input reports NeedsFallback with a reason instead of an error;
// tiers are evaluated in order and the first non-fallback result wins.
type tierResult struct {
	Text          string
	NeedsFallback bool
	Reason        string
}

func tierOK(text string) tierResult {
	return tierResult{Text: text}
}

func tierFallback(reason string) tierResult {
	return tierResult{NeedsFallback: true, Reason: reason}
}

func (v *Verbalizer) Verbalize(markup string) string {
	if res := symbolicTier(markup); !res.NeedsFallback {
		return res.Text
	}
	if res := patternTier(markup); !res.NeedsFallback {
		return res.Text
	}
	return "mathematical expression: " + markup
}

// symbolicTier parses the markup as a plain mathematical expression and, on
// success, speaks its tokens in original order with operators replaced.
func symbolicTier(markup string) tierResult {
	tokens, err := tokenize(markup)
	if err != nil {
		return tierFallback(err.Error())
	}
	if len(tokens) == 0 {
		return tierFallback("empty expression")
	}
	p := &exprParser{tokens: tokens}
	if !p.parseExpression() || p.pos != len(tokens) {
		return tierFallback("not a plain expression")
	}
	return tierOK(speakTokens(tokens))
}

func speakTokens(tokens []token) string {
	words := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		switch tok.kind {
		case tokNumber:
			words = append(words, tok.text)
		case tokIdent:
			if tok.text == "sqrt" && i+1 < len(tokens) && tokens[i+1].kind == tokLParen {
				words = append(words, "square root of")
			} else {
				words = append(words, tok.text)
			}
		case tokOp:
			words = append(words, spokenOperators[tok.text])
		case tokLParen, tokRParen:
			// grouping is implied by word order
		}
	}
	return strings.Join(words, " ")
}

// patternTier rewrites raw markup textually: cosmetic delimiters stripped,
// known symbols replaced longest-match-first, then fractions, superscripts
// and subscripts resolved structurally.
func patternTier(markup string) tierResult {
	s := strings.TrimSpace(markup)
	if s == "" {
		return tierFallback("empty markup")
	}

	s = stripDelimiters(s)
	s = collapseWhitespace(s)
	s = replaceSymbols(s)
	s = ResolveFractions(s)
	s = resolveScripts(s, '^', " to the power of ")
	s = resolveScripts(s, '_', " sub ")

	// Anything structural that survived the steps above is markup this tier
	// does not understand: an unknown command, or a fraction whose brace
	// groups never closed. Stripping the braces here would hide that, so the
	// raw input must go to the verbatim fallback instead.
	if strings.ContainsRune(s, '\\') {
		return tierFallback("unresolved command")
	}
	if !bracesBalanced(s) {
		return tierFallback("unbalanced braces")
	}

	s = strings.NewReplacer("{", " ", "}", " ").Replace(s)
	s = collapseWhitespace(s)

	if s == "" {
		return tierFallback("nothing speakable")
	}
	return tierOK(s)
}

func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func stripDelimiters(s string) string {
	replacer := strings.NewReplacer(
		`\left`, "",
		`\right`, "",
		`\quad`, " ",
		`\qquad`, " ",
		`\,`, " ",
		`\;`, " ",
		`\!`, "",
		"$$", "",
		"$", "",
		`\[`, "",
		`\]`, "",
		`\(`, "",
		`\)`, "",
	)
	return replacer.Replace(s)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func replaceSymbols(s string) string {
	for _, r := range symbolRules {
		s = strings.ReplaceAll(s, r.pat, " "+r.spoken+" ")
	}
	return s
}

// ResolveFractions rewrites every \frac{A}{B} construct as "A divided by B",
// recursing into the numerator and denominator so nested fractions expand
// fully. Brace groups are matched by depth counting, not by pattern. Applying
// it to already-resolved text is a no-op.
func ResolveFractions(s string) string {
	for {
		i := strings.Index(s, `\frac`)
		if i < 0 {
			return s
		}
		num, den, rest, ok := fracArguments(s[i+len(`\frac`):])
		if !ok {
			return s
		}
		num = ResolveFractions(num)
		den = ResolveFractions(den)
		s = s[:i] + num + " divided by " + den + rest
	}
}

func fracArguments(s string) (num, den, rest string, ok bool) {
	num, rest, ok = bracedGroup(strings.TrimLeft(s, " "))
	if !ok {
		return "", "", "", false
	}
	den, rest, ok = bracedGroup(strings.TrimLeft(rest, " "))
	if !ok {
		return "", "", "", false
	}
	return num, den, rest, true
}

// bracedGroup consumes one balanced {...} group at the start of s.
func bracedGroup(s string) (content, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", "", false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// resolveScripts replaces marker{group} and marker<token> constructs with the
// given phrase. Each iteration removes one marker, so the loop terminates.
func resolveScripts(s string, marker byte, phrase string) string {
	for {
		i := strings.IndexByte(s, marker)
		if i < 0 {
			return s
		}
		rest := s[i+1:]
		if content, tail, ok := bracedGroup(rest); ok {
			s = s[:i] + phrase + content + tail
			continue
		}
		n := scriptTokenLen(rest)
		if n == 0 {
			s = s[:i] + " " + rest
			continue
		}
		s = s[:i] + phrase + rest[:n] + rest[n:]
	}
}

func scriptTokenLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		isWord := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if !isWord {
			return i
		}
	}
	return len(s)
}
