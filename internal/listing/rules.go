package listing

import "regexp"

// rule is one pattern of an extractor chain. valid, when set, must accept
// the captured group for the match to count.
type rule struct {
	re    *regexp.Regexp
	valid func(string) bool
}

// firstMatch evaluates rules in order and returns the first capture that
// passes its validator. rejected reports whether some capture failed one.
func firstMatch(text string, rules []rule) (capture string, ok bool, rejected bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if r.valid != nil && !r.valid(m[1]) {
			rejected = true
			continue
		}
		return m[1], true, rejected
	}
	return "", false, rejected
}
