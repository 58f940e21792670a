package recipe

import "strings"

// DeriveAliases computes the default floating alias set for a version
// token: every proper dotted prefix of the version, in increasing
// precision, followed by "latest".
//
//	"1.4.0" → ["1", "1.4", "latest"]
//	"1.4"   → ["1", "latest"]
//	"2"     → ["latest"]
//
// A single-component version yields only "latest" — aliasing "2" to
// itself would just re-push the version tag under the same name.
func DeriveAliases(version string) []string {
	parts := strings.Split(version, ".")

	aliases := make([]string, 0, len(parts))
	for i := 1; i < len(parts); i++ {
		aliases = append(aliases, strings.Join(parts[:i], "."))
	}
	return append(aliases, "latest")
}
