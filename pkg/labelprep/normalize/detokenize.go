package normalize

import (
	"regexp"
	"strings"
)

type substitution struct {
	re   *regexp.Regexp
	repl string
}

func sub(pattern, repl string) substitution {
	return substitution{re: regexp.MustCompile(pattern), repl: repl}
}

// Penn Treebank detokenization, applied in order over the space-joined
// tokens. Each group undoes the padding the Treebank tokenizer adds.
var (
	contractions = []substitution{
		sub(`(?i) ('t)\s(is)\b`, "${1}${2}"),
		sub(`(?i) ('t)\s(was)\b`, "${1}${2}"),
		sub(`(?i)\b(can)\s(not)\b`, "${1}${2}"),
		sub(`(?i)\b(d)\s('ye)\b`, "${1}${2}"),
		sub(`(?i)\b(gim)\s(me)\b`, "${1}${2}"),
		sub(`(?i)\b(gon)\s(na)\b`, "${1}${2}"),
		sub(`(?i)\b(got)\s(ta)\b`, "${1}${2}"),
		sub(`(?i)\b(lem)\s(me)\b`, "${1}${2}"),
		sub(`(?i)\b(more)\s('n)\b`, "${1}${2}"),
		sub(`(?i)\b(wan)\s(na)\s`, "${1}${2}"),
	}

	endingQuotes = []substitution{
		sub(`([^' ])\s('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `, "${1}${2} "),
		sub(`([^' ])\s('[sS]|'[mM]|'[dD]|') `, "${1}${2} "),
		sub(`(\S)\s('')`, "${1}${2}"),
		sub(`('')\s([.,:)\]>};%])`, "${1}${2}"),
		sub(`''`, `"`),
	}

	parensBrackets = []substitution{
		sub(`([\[({<])\s`, "${1}"),
		sub(`\s([\])}>])`, "${1}"),
		sub(`([\])}>])\s([:;,.])`, "${1}${2}"),
	}

	punctuation = []substitution{
		sub(`([^'])\s'\s`, "${1}' "),
		sub(`\s([?!])`, "${1}"),
		sub(`([^.])\s(\.)([\])}>"']*)\s*$`, "${1}${2}${3}"),
		sub(`([#$])\s`, "${1}"),
		sub(`\s([;%])`, "${1}"),
		sub(`\s\.\.\.\s`, "..."),
		sub(`\s([:,])`, "${1}"),
	}

	startingQuotes = []substitution{
		sub("([ (\\[{<])\\s``", "${1}``"),
		sub("(``)\\s", "${1}"),
		sub("``", `"`),
	}
)

// Detokenize reassembles tokens into a single string, re-attaching
// punctuation and contractions without spurious whitespace.
//
//	["headache", ",", "fever", "%"] -> "headache, fever%"
func Detokenize(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	text := " " + strings.Join(tokens, " ") + " "

	text = apply(text, contractions)
	text = apply(text, endingQuotes)
	text = strings.TrimSpace(text)
	text = apply(text, parensBrackets)
	text = apply(text, punctuation)
	text = apply(text, startingQuotes)

	return strings.TrimSpace(text)
}

func apply(text string, subs []substitution) string {
	for _, s := range subs {
		text = s.re.ReplaceAllString(text, s.repl)
	}
	return text
}
