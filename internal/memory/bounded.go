package memory

import (
	"strings"

	"github.com/easeaico/project-integrate/internal/utils"
)

const (
	maxItemRunes = 100
	dedupRunes   = 50
)

// dedupKey is the normalized prefix used for tolerant membership checks.
func dedupKey(item string) string {
	return utils.TruncateRunes(utils.Normalize(item), dedupRunes)
}

// containsSimilar reports whether list already holds item: the 50-rune
// normalized prefix of item occurs within an existing entry's prefix. A longer
// item never matches a shorter entry, so "hopeless" is kept beside "hope".
func containsSimilar(list []string, item string) bool {
	key := dedupKey(item)
	if key == "" {
		return false
	}
	for _, existing := range list {
		other := dedupKey(existing)
		if other == "" {
			continue
		}
		if strings.Contains(other, key) {
			return true
		}
	}
	return false
}

// addUnique appends item unless a similar entry exists, then trims the oldest
// entries so that at most limit remain. A limit of zero means unbounded.
func addUnique(list []string, item string, limit int) []string {
	item = utils.TruncateRunes(strings.TrimSpace(item), maxItemRunes)
	if item == "" || containsSimilar(list, item) {
		return list
	}
	list = append(list, item)
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}

func lastN(list []string, n int) []string {
	if len(list) <= n {
		return append([]string(nil), list...)
	}
	return append([]string(nil), list[len(list)-n:]...)
}
