package vector

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

var (
	likeCacheMu sync.Mutex
	likeCache   = map[string]*regexp.Regexp{}
)

// compileLikePattern translates a SQL LIKE pattern to an anchored
// regular expression: '_' matches any single character, '%' matches any
// run of characters (including none), every other regex metacharacter
// is escaped literally.
func compileLikePattern(pattern string) (*regexp.Regexp, error) {
	likeCacheMu.Lock()
	if re, ok := likeCache[pattern]; ok {
		likeCacheMu.Unlock()
		return re, nil
	}
	likeCacheMu.Unlock()

	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '_':
			b.WriteString(".")
		case '%':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, vnerrors.NewOperatorError("invalid LIKE pattern %q: %v", pattern, err)
	}

	likeCacheMu.Lock()
	likeCache[pattern] = re
	likeCacheMu.Unlock()
	return re, nil
}

// evalLike implements LIKE/NOT_LIKE. The pattern argument must be
// constant across the batch (a literal, or a broadcastable length-1
// expression); matching against a per-row pattern column is not
// supported.
func evalLike(negate bool, probe, pattern column.Column) (column.Column, error) {
	if pattern.Len() == 0 || !pattern.IsValid(0) {
		return column.Column{}, vnerrors.NewOperatorError("LIKE pattern must be a non-null constant")
	}
	re, err := compileLikePattern(pattern.Get(0).Str)
	if err != nil {
		return column.Column{}, err
	}
	n := probe.Len()
	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if !probe.IsValid(i) {
			continue
		}
		out[i] = re.MatchString(probe.Strs[i]) != negate
		valid[i] = true
	}
	return column.NewBoolColumn(out, valid), nil
}
