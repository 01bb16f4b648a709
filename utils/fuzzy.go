package utils

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Fuzzy word matching for the product search. A query word matches a text
// word when any stage of the cascade accepts it: substring containment,
// phonetic code equality, keyboard-adjacency tolerance, Damerau-Levenshtein
// distance, Jaro-Winkler similarity, bigram overlap, or common-subsequence
// ratio. The thresholds are deliberately generous; the catalog is small and
// false positives are cheaper than a shopper finding nothing.

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeText lowercases, strips punctuation and trims. Used for the fast
// exact-containment pass before the word-level cascade runs.
func NormalizeText(s string) string {
	return strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(s), ""))
}

// FuzzyMatch reports whether query plausibly matches text. Both sides are
// split into words and every query word is tried against every text word.
func FuzzyMatch(text, query string) bool {
	if text == "" || query == "" {
		return false
	}

	normalizedText := strings.TrimSpace(strings.ToLower(text))
	normalizedQuery := strings.TrimSpace(strings.ToLower(query))

	if strings.Contains(normalizedText, normalizedQuery) {
		return true
	}

	textWords := strings.Fields(normalizedText)
	queryWords := strings.Fields(normalizedQuery)

	for _, queryWord := range queryWords {
		if len([]rune(queryWord)) < 2 {
			if strings.Contains(normalizedText, queryWord) {
				return true
			}
			continue
		}

		for _, textWord := range textWords {
			if wordsMatch(textWord, queryWord) {
				return true
			}
		}
	}

	return false
}

func wordsMatch(textWord, queryWord string) bool {
	if strings.Contains(textWord, queryWord) || strings.Contains(queryWord, textWord) {
		return true
	}

	if soundexCode(textWord) == soundexCode(queryWord) {
		return true
	}

	if keyboardDistanceMatch(textWord, queryWord) {
		return true
	}

	maxLen := max(len([]rune(textWord)), len([]rune(queryWord)))

	// 40% edit-distance tolerance, never below 2.
	tolerance := max(2, int(math.Floor(float64(maxLen)*0.4)))
	if damerauLevenshtein(textWord, queryWord) <= tolerance {
		return true
	}

	if jaroWinkler(textWord, queryWord) > 0.7 {
		return true
	}

	if bigramSimilarity(textWord, queryWord) > 0.6 {
		return true
	}

	if float64(longestCommonSubsequence(textWord, queryWord))/float64(maxLen) > 0.6 {
		return true
	}

	return false
}

// soundexMap groups consonants into six classes: labials, sibilants,
// dentals, l, m/n, r.
var soundexMap = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// soundexCode builds a 4-character phonetic fingerprint: first letter kept,
// following consonant classes appended with consecutive duplicates
// suppressed, right-padded with zeros. Vowels and h/w/y do not reset the
// duplicate suppression.
func soundexCode(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}

	var code strings.Builder
	code.WriteRune(unicode.ToUpper(runes[0]))
	prev := soundexMap[unicode.ToLower(runes[0])] // zero when the letter has no class

	for i := 1; i < len(runes) && code.Len() < 4; i++ {
		ch := unicode.ToLower(runes[i])
		digit := soundexMap[ch]

		if digit != 0 && digit != prev {
			code.WriteByte(digit)
		}

		if !strings.ContainsRune("aeiouyhw", ch) {
			prev = digit
		}
	}

	out := code.String()
	for len(out) < 4 {
		out += "0"
	}
	return out[:4]
}

// keyboardNeighbors is the QWERTY adjacency table. It is intentionally
// asymmetric in places ('z' lists 's' but not vice versa); matching is
// directional, text character first.
var keyboardNeighbors = map[rune]string{
	'q': "wa", 'w': "qes", 'e': "wrd", 'r': "etf", 't': "ryg",
	'y': "tuh", 'u': "yij", 'i': "uok", 'o': "ipl", 'p': "ol",
	'a': "qsz", 's': "awdx", 'd': "sefc", 'f': "drgv", 'g': "fthb",
	'h': "gyjn", 'j': "hukm", 'k': "jil", 'l': "kop",
	'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn",
	'n': "bhjm", 'm': "njk",
}

// keyboardDistanceMatch tolerates mis-keys: positions where the characters
// differ and are not adjacent on the keyboard count as real differences, and
// up to max(1, 30% of the longer word) of those are allowed.
func keyboardDistanceMatch(textWord, queryWord string) bool {
	r1 := []rune(textWord)
	r2 := []rune(queryWord)

	if abs(len(r1)-len(r2)) > 2 {
		return false
	}

	maxLen := max(len(r1), len(r2))
	differences := 0

	for i := 0; i < maxLen; i++ {
		switch {
		case i >= len(r1) || i >= len(r2):
			differences++
		default:
			c1 := unicode.ToLower(r1[i])
			c2 := unicode.ToLower(r2[i])
			if c1 == c2 {
				continue
			}
			if !strings.ContainsRune(keyboardNeighbors[c1], c2) {
				differences++
			}
		}
	}

	return differences <= max(1, int(math.Floor(float64(maxLen)*0.3)))
}

// damerauLevenshtein is the edit distance with unit-cost substitutions,
// insertions, deletions and adjacent transpositions.
func damerauLevenshtein(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	d := make([][]int, len(r2)+1)
	for j := range d {
		d[j] = make([]int, len(r1)+1)
	}
	for i := 0; i <= len(r1); i++ {
		d[0][i] = i
	}
	for j := 0; j <= len(r2); j++ {
		d[j][0] = j
	}

	for j := 1; j <= len(r2); j++ {
		for i := 1; i <= len(r1); i++ {
			if r1[i-1] == r2[j-1] {
				d[j][i] = d[j-1][i-1]
				continue
			}

			d[j][i] = min(d[j-1][i-1], min(d[j-1][i], d[j][i-1])) + 1

			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				d[j][i] = min(d[j][i], d[j-2][i-2]+1)
			}
		}
	}

	return d[len(r2)][len(r1)]
}

// jaroWinkler boosts the Jaro similarity by a common-prefix bonus of 0.1 per
// leading character, capped at 4, but only once the base similarity clears
// 0.7.
func jaroWinkler(s1, s2 string) float64 {
	jaro := jaroSimilarity(s1, s2)
	if jaro < 0.7 {
		return jaro
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prefix := 0
	for i := 0; i < min(min(len(r1), len(r2)), 4); i++ {
		if r1[i] != r2[i] {
			break
		}
		prefix++
	}

	return jaro + 0.1*float64(prefix)*(1-jaro)
}

func jaroSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}

	matchWindow := max(len(r1), len(r2))/2 - 1
	matched1 := make([]bool, len(r1))
	matched2 := make([]bool, len(r2))

	matches := 0
	for i := range r1 {
		start := max(0, i-matchWindow)
		end := min(i+matchWindow+1, len(r2))

		for j := start; j < end; j++ {
			if matched2[j] || r1[i] != r2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range r1 {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(len(r1)) + m/float64(len(r2)) + (m-float64(transpositions)/2)/m) / 3
}

// bigramSimilarity is Jaccard-style overlap of character bigrams. The
// intersection counts bigram occurrences on the first side, the union is the
// distinct set of both.
func bigramSimilarity(s1, s2 string) float64 {
	grams1 := ngrams(s1, 2)
	grams2 := ngrams(s2, 2)

	if len(grams1) == 0 && len(grams2) == 0 {
		return 1
	}
	if len(grams1) == 0 || len(grams2) == 0 {
		return 0
	}

	set2 := make(map[string]bool, len(grams2))
	for _, g := range grams2 {
		set2[g] = true
	}

	intersection := 0
	for _, g := range grams1 {
		if set2[g] {
			intersection++
		}
	}

	union := make(map[string]bool, len(grams1)+len(grams2))
	for _, g := range grams1 {
		union[g] = true
	}
	for _, g := range grams2 {
		union[g] = true
	}

	return float64(intersection) / float64(len(union))
}

func ngrams(s string, n int) []string {
	runes := []rune(s)
	var grams []string
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}

func longestCommonSubsequence(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	dp := make([][]int, len(r1)+1)
	for i := range dp {
		dp[i] = make([]int, len(r2)+1)
	}

	for i := 1; i <= len(r1); i++ {
		for j := 1; j <= len(r2); j++ {
			if r1[i-1] == r2[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	return dp[len(r1)][len(r2)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
