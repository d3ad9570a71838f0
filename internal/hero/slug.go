package hero

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// datePrefixRe matches a leading YYYY-MM-DD- date prefix in a filename.
var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// multiHyphenRe collapses multiple consecutive hyphens into one.
var multiHyphenRe = regexp.MustCompile(`-{2,}`)

// Slugify converts a title or file name into a URL-safe slug.
// It lowercases the input, replaces spaces and underscores with hyphens,
// strips characters that are not letters, digits, or hyphens, collapses
// multiple hyphens, and trims leading/trailing hyphens. Unicode letters are
// preserved.
func Slugify(title string) string {
	// Normalize Unicode to NFC form (e.g., combining accents become precomposed).
	s := norm.NFC.String(title)
	s = strings.ToLower(s)

	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var buf strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			buf.WriteRune(r)
		}
	}
	s = buf.String()

	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// slugFromFileName strips the extension and any date prefix before
// slugifying.
func slugFromFileName(name string) string {
	name = strings.TrimSuffix(name, ".md")
	name = datePrefixRe.ReplaceAllString(name, "")
	return Slugify(name)
}

// suggest returns the candidates within threshold edits of input, closest
// first. Exact matches are skipped.
func suggest(input string, candidates []string, threshold int) []string {
	inputLower := strings.ToLower(input)
	type scored struct {
		term string
		dist int
	}
	var found []scored
	for _, term := range candidates {
		termLower := strings.ToLower(term)
		if termLower == inputLower {
			continue
		}
		if dist := levenshtein.ComputeDistance(inputLower, termLower); dist <= threshold {
			found = append(found, scored{term, dist})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })

	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.term
	}
	return out
}

// didYouMean formats a suggestion suffix for error messages.
func didYouMean(input string, candidates []string) string {
	if s := suggest(input, candidates, 3); len(s) > 0 {
		return " (did you mean " + strings.Join(s, ", ") + "?)"
	}
	return ""
}
