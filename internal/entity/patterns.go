package entity

import (
	"regexp"
	"strings"

	"github.com/easeaico/project-integrate/internal/types"
)

// pattern is one matcher of a category. Term patterns match a word prefix, so
// "abandon" also matches "abandoned" as a partial hit.
type pattern struct {
	re *regexp.Regexp
	// term is empty for capture patterns, whose name comes from the whole match.
	term string
}

var categoryTerms = map[types.EntityCategory][]string{
	types.CategoryArchetypal: {
		"shadow",
		"mother",
		"father",
		"wise old",
		"guide",
		"ancestor",
		"serpent",
		"snake",
		"jaguar",
		"death",
		"rebirth",
		"darkness",
		"light",
		"spirit",
		"goddess",
		"healer",
		"warrior",
		"void",
		"hero",
		"trickster",
	},
	types.CategoryEmotional: {
		"grief",
		"shame",
		"guilt",
		"fear",
		"afraid",
		"anger",
		"angry",
		"sadness",
		"sad",
		"lonel",
		"anxi",
		"rage",
		"despair",
		"hope",
		"joy",
		"love",
		"compassion",
		"gratitude",
		"awe",
		"hurt",
	},
	types.CategorySomatic: {
		"chest",
		"heart",
		"stomach",
		"belly",
		"gut",
		"throat",
		"shoulder",
		"jaw",
		"tension",
		"tight",
		"breath",
		"heaviness",
		"numbness",
		"tingl",
		"pressure",
		"shaking",
		"nausea",
		"body",
	},
	types.CategoryTrauma: {
		"trauma",
		"abuse",
		"neglect",
		"abandon",
		"betray",
		"violence",
		"accident",
		"assault",
		"flashback",
		"trigger",
	},
	types.CategoryAttachment: {
		"attach",
		"reject",
		"trust",
		"intimacy",
		"relationship",
		"partner",
		"clingy",
		"avoidant",
		"secure",
		"insecure",
	},
	types.CategoryParts: {
		"protector",
		"inner critic",
		"exile",
		"manager",
		"firefighter",
		"inner child",
	},
	types.CategoryRegulation: {
		"ground",
		"orient",
		"self-regulat",
		"co-regulat",
		"calm down",
		"settle",
		"sooth",
		"vagal",
		"safety",
	},
}

// partsNoun captures "<word> part" and "<word> parts".
var partsNoun = regexp.MustCompile(`(?i)\b([a-z]+) parts?\b`)

// partsStopwords never name a part on their own.
var partsStopwords = map[string]struct{}{
	"a":       {},
	"the":     {},
	"this":    {},
	"that":    {},
	"one":     {},
	"another": {},
	"some":    {},
	"every":   {},
	"my":      {},
	"your":    {},
	"its":     {},
	"what":    {},
	"which":   {},
	"each":    {},
	"other":   {},
	"no":      {},
	"in":      {},
	"of":      {},
	"for":     {},
	"any":     {},
	"young":   {},
	"little":  {},
	"big":     {},
}

func compileCategories() map[types.EntityCategory][]pattern {
	out := make(map[types.EntityCategory][]pattern, len(categoryTerms)+1)
	for category, terms := range categoryTerms {
		patterns := make([]pattern, 0, len(terms))
		for _, term := range terms {
			patterns = append(patterns, pattern{
				term: term,
				re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `[a-z'-]*`),
			})
		}
		out[category] = patterns
	}
	// The capture pattern runs after the named part vocabulary.
	out[types.CategoryParts] = append(out[types.CategoryParts], pattern{re: partsNoun})
	return out
}

func partName(match []string) (string, bool) {
	if len(match) < 2 {
		return "", false
	}
	word := strings.ToLower(match[1])
	if _, stop := partsStopwords[word]; stop {
		return "", false
	}
	return word + " part", true
}
