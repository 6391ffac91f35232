package function

import "strings"

// resolveNamespaced resolves an "np."-prefixed name against the same
// default registry, stripping the namespace prefix. It exists as its
// own resolution step (rather than folding into Default.Lookup)
// because namespaced lookups must be tried before a bare-name lookup:
// "np.sum" and a user-defined scalar "sum" can coexist.
func resolveNamespaced(name string) (Descriptor, bool) {
	lower := normalizeName(name)
	if !strings.HasPrefix(lower, "np.") {
		return Descriptor{}, false
	}
	if _, ok := aggKindByName[lower]; ok {
		return Default.Lookup(lower)
	}
	stripped := strings.TrimPrefix(lower, "np.")
	return Default.Lookup(stripped)
}
