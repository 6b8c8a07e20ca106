package corrector

import "strings"

func isTitle(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) == string(r[0]) && strings.ToLower(string(r[1:])) == string(r[1:])
}

func isUpper(s string) bool { return strings.ToUpper(s) == s && strings.ToLower(s) != s }

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// matchCase spells word with the capitalisation of like.
func matchCase(like, word string) string {
	switch {
	case len([]rune(like)) > 1 && isUpper(like):
		return strings.ToUpper(word)
	case isTitle(like) && strings.ToLower(like) != like:
		return title(word)
	}
	return word
}
