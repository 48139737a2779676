// ABOUTME: Relationship alias expansion for contact lookups
// ABOUTME: Maps regional kinship words onto a canonical search set
package lexical

var (
	momAliases = []string{"mom", "mother", "mommy", "mummy", "amma", "ammaa", "ammaji", "maa", "ammi", "aai", "aayi", "mata"}
	dadAliases = []string{"dad", "father", "appa", "bapu", "papa", "pitaji", "abbu"}

	momExpansion = []string{"mom", "mother", "mummy", "amma", "maa"}
	dadExpansion = []string{"dad", "father", "appa", "papa"}
)

// ExpandAliases returns the set of names to try when looking up a contact.
// Unknown names expand to themselves.
func ExpandAliases(name string) []string {
	n := Normalize(name)
	if n == "" {
		return nil
	}
	if contains(momAliases, n) {
		return append([]string(nil), momExpansion...)
	}
	if contains(dadAliases, n) {
		return append([]string(nil), dadExpansion...)
	}
	return []string{n}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
