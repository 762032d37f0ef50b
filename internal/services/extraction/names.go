package extraction

import (
	"regexp"
	"strings"
)

var (
	labeledNameRe = regexp.MustCompile(`\b(?i:full name|name)[ \t]*:[ \t]*([A-Z][a-z]+)[ \t]+([A-Z][a-z]+)`)
	givenNameRe   = regexp.MustCompile(`(?i:given names?|first name)[ \t]*:[ \t]*([A-Z][a-z]+)`)
	surnameRe     = regexp.MustCompile(`(?i:surname|last name|family name)[ \t]*:[ \t]*([A-Z][a-z]+)`)
	nameWordRe    = regexp.MustCompile(`^[A-Z][a-z]+$`)
)

// documentWords never form part of a holder's name.
var documentWords = map[string]bool{
	"passport": true, "passeport": true, "no": true, "number": true, "date": true,
	"birth": true, "of": true, "place": true, "national": true, "identity": true,
	"card": true, "nationality": true, "country": true, "republic": true, "name": true,
	"surname": true, "given": true, "names": true, "sex": true, "gender": true,
	"expiry": true, "issue": true, "issued": true, "authority": true, "signature": true,
	"document": true, "type": true, "code": true, "address": true, "residence": true,
}

// findName returns the holder's first and last name. Labeled fields win; otherwise
// the first two adjacent capitalized words on an unlabeled line that are not
// document vocabulary.
func findName(text string) (string, string, bool) {
	if m := labeledNameRe.FindStringSubmatch(text); m != nil && !documentWords[strings.ToLower(m[1])] {
		return m[1], m[2], true
	}
	given := givenNameRe.FindStringSubmatch(text)
	family := surnameRe.FindStringSubmatch(text)
	if given != nil && family != nil {
		return given[1], family[1], true
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, ":") {
			continue
		}
		words := strings.Fields(line)
		for i := 0; i+1 < len(words); i++ {
			a, b := strings.Trim(words[i], ",.;"), strings.Trim(words[i+1], ",.;")
			if isNameWord(a) && isNameWord(b) {
				return a, b, true
			}
		}
	}
	return "", "", false
}

func isNameWord(w string) bool {
	return nameWordRe.MatchString(w) && !documentWords[strings.ToLower(w)]
}
