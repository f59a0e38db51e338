package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ascript/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "load", "edit", "reset", "clear", "quit"}

// isWordBoundary reports whether r ends an identifier for completion
// purposes.
func isWordBoundary(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// wordBounds returns the identifier under the cursor and its byte offsets in
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading to the word starting at
// wordStart. For "x + cfg.log.le" with the word "le" it returns "cfg.log".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	path := prefix[pos:]
	if path == "" || strings.Contains(path, "..") || unicode.IsDigit(rune(path[0])) {
		return ""
	}

	return path
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word yields every member after a dot and nothing at the top level, so the
// idle hint stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, byteOffset(input, m.input.Position()))

	if m.mode == modeCtrl {
		if word == "" || strings.Contains(input[:wordStart], " ") {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = m.session.Candidates(parent)

		if parent == "" {
			candidates = append(candidates, token.ReservedWords()...)
		}

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			slices.Sort(candidates)

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle
	emph := lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)

	if selected {
		base = selectedStyle
		emph = selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(emph.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
