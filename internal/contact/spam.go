package contact

import (
	"regexp"
	"strings"
)

// spamKeywords are terms that mark a message as spam wherever they appear.
var spamKeywords = []string{
	"viagra",
	"cialis",
	"pharmacy",
	"casino",
	"poker",
	"gambling",
	"lottery",
	"jackpot",
	"free money",
	"you have won",
	"claim your prize",
	"payday loan",
	"crypto giveaway",
	"seo services",
	"backlinks",
}

// urgencyPhrases are promotional calls to action.
var urgencyPhrases = []string{
	"buy now",
	"act now",
	"order now",
	"click here",
	"limited time",
	"urgent response",
	"don't miss out",
	"100% free",
	"risk-free",
	"once in a lifetime",
}

var (
	keywordPattern   = wordPattern(spamKeywords)
	urgencyPattern   = wordPattern(urgencyPhrases)
	longURLPattern   = regexp.MustCompile(`(https?://|www\.)\S{20,}`)
	shoutingPattern  = regexp.MustCompile(`[A-Z]{10,}`)
	exclamationsRule = regexp.MustCompile(`!{3,}`)
)

// wordPattern matches any of terms as whole words, so "cialis" does not fire
// inside "specialist".
func wordPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`(?:^|\W)(?:` + strings.Join(quoted, "|") + `)(?:\W|$)`)
}

// SpamReason returns a short label for the first heuristic s matches, or ""
// when it matches none. The uppercase check runs on the original text since
// lowercasing would erase it.
func SpamReason(s Submission) string {
	raw := strings.Join([]string{s.Name, s.Email, s.Subject, s.Message}, " ")
	text := strings.ToLower(raw)

	switch {
	case keywordPattern.MatchString(text):
		return "keyword"
	case urgencyPattern.MatchString(text):
		return "urgency"
	case longURLPattern.MatchString(text):
		return "long-url"
	case shoutingPattern.MatchString(raw):
		return "uppercase"
	case exclamationsRule.MatchString(text):
		return "exclamations"
	}
	return ""
}

// IsSpam reports whether s matches any spam heuristic.
func IsSpam(s Submission) bool {
	return SpamReason(s) != ""
}
