package generator

import (
	"go/token"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Capture patterns used in scaffolded step definitions.
const (
	QuotedPattern      = `"([^"]*)"`
	IntPattern         = `(-?\d+)`
	FloatPattern       = `(-?\d*\.?\d+)`
	PlaceholderPattern = `(.*)`
)

// tokenPattern finds the parts of a step text that become capture groups:
// quoted strings, outline placeholders, decimals and integers.
var tokenPattern = regexp.MustCompile(`"[^"]*"|<[^<>]+>|-?\b\d+\.\d+\b|-?\b\d+\b`)

type (
	// Param is one argument of a scaffolded step function.
	Param struct {
		Name string
		Type string
	}

	// StepStub is a step definition derived from a gherkin step.
	StepStub struct {
		Text         string
		Pattern      string
		FunctionName string
		Params       []Param
		HasTable     bool
		HasDocString bool
	}
)

// NewStepStub derives the pattern, function name and parameters of text.
func NewStepStub(text string) *StepStub {
	stub := &StepStub{Text: text}

	var pattern strings.Builder
	var words []string
	pattern.WriteString("^")

	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		literal := text[last:loc[0]]
		pattern.WriteString(regexp.QuoteMeta(literal))
		words = append(words, strings.FieldsFunc(literal, notWordRune)...)

		token := text[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(token, `"`):
			pattern.WriteString(QuotedPattern)
			stub.addParam("", "string")
		case strings.HasPrefix(token, "<"):
			pattern.WriteString(PlaceholderPattern)
			stub.addParam(strings.Trim(token, "<>"), "string")
		case strings.Contains(token, "."):
			pattern.WriteString(FloatPattern)
			stub.addParam("", "float64")
		default:
			pattern.WriteString(IntPattern)
			stub.addParam("", "int")
		}
		last = loc[1]
	}
	tail := text[last:]
	pattern.WriteString(regexp.QuoteMeta(tail))
	words = append(words, strings.FieldsFunc(tail, notWordRune)...)
	pattern.WriteString("$")

	stub.Pattern = pattern.String()
	stub.FunctionName = functionName(words)
	return stub
}

// Matches reports whether the stub pattern matches text.
func (s *StepStub) Matches(text string) bool {
	re, err := regexp.Compile(s.Pattern)
	return err == nil && re.MatchString(text)
}

func (s *StepStub) addParam(name, typ string) {
	name = identifier(name)
	if name == "" || s.hasParam(name) {
		name = "arg" + strconv.Itoa(len(s.Params)+1)
	}
	s.Params = append(s.Params, Param{Name: name, Type: typ})
}

func (s *StepStub) hasParam(name string) bool {
	// c, table and docString are taken by the generated signature
	if name == "c" || name == "table" || name == "docString" {
		return true
	}
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// functionName joins words into an exported identifier.
func functionName(words []string) string {
	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "Step" + name
	}
	return name
}

// identifier turns an outline placeholder into a lower camel case
// parameter name.
func identifier(raw string) string {
	words := strings.FieldsFunc(raw, notWordRune)
	if len(words) == 0 || unicode.IsDigit([]rune(words[0])[0]) {
		return ""
	}
	name := strings.ToLower(words[0])
	for _, w := range words[1:] {
		runes := []rune(w)
		name += string(unicode.ToUpper(runes[0])) + string(runes[1:])
	}
	if token.IsKeyword(name) {
		return ""
	}
	return name
}
