package backlink

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// Strategy selects how a block's end boundary is chosen and which spans
// survive the acceptance filter.
type Strategy string

const (
	// StrategyDefault accepts every span found by boundary detection.
	StrategyDefault Strategy = "default"
	// StrategyHeadersOnly keeps only spans containing a Markdown heading line.
	StrategyHeadersOnly Strategy = "headers-only"
)

// ParseStrategy maps a strategy name to its Strategy value. An empty name
// selects StrategyDefault.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", string(StrategyDefault):
		return StrategyDefault, nil
	case string(StrategyHeadersOnly):
		return StrategyHeadersOnly, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidStrategy, name)
	}
}

var (
	// A genuine horizontal rule: three or more dashes and nothing else.
	// Lines containing a pipe are excluded before this is consulted, so
	// Markdown table separator rows never qualify.
	horizontalRuleRe = regexp.MustCompile(`^-{3,}$`)

	// One to five hashes followed by a space: a Markdown heading line.
	headingLineRe = regexp.MustCompile(`^#{1,5} `)
)

// Extractor slices contextual blocks out of raw Markdown text around each
// bracketed reference to a note. It is tolerant by contract: absent matches
// yield an empty list and malformed input never panics outward.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a block extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns one block per reference occurrence in text, bounded and
// filtered according to strategy. sourcePath only labels the produced
// blocks; the text is taken as given.
func (e *Extractor) Extract(sourcePath, text, noteName string, strategy Strategy) (blocks []models.Block) {
	defer func() {
		// One malformed document must not abort extraction for others.
		if r := recover(); r != nil {
			e.logger.Warn("extractor: recovered",
				slog.String("source", sourcePath), slog.Any("panic", r))
			blocks = nil
		}
	}()

	if noteName == "" || text == "" {
		return nil
	}

	re := referencePattern(noteName)
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	for i, match := range matches {
		start := lineStartBefore(text, match[0])
		end := e.resolveEnd(text, match[1], matches, i)
		if end <= start {
			continue
		}
		span := text[start:end]

		if strategy == StrategyHeadersOnly && !containsHeadingLine(span) {
			continue
		}

		blocks = append(blocks, models.Block{
			ID:              fmt.Sprintf("%s:%d-%d", sourcePath, start, end),
			Content:         span,
			SourcePath:      sourcePath,
			StartOffset:     start,
			EndOffset:       end,
			IsCollapsed:     false,
			IsVisible:       true,
			HasBacklinkLine: true,
		})
	}
	return blocks
}

// HeadingBoundaries treats every heading line in the document as its own
// single-line boundary, independent of reference occurrences. Used when
// only heading locations are needed, not full context blocks.
func (e *Extractor) HeadingBoundaries(sourcePath, text string) []models.Block {
	var blocks []models.Block
	offset := 0
	for {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var line string
		var next int
		if lineEnd < 0 {
			line = text[offset:]
			next = len(text)
		} else {
			line = text[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}

		if headingLineRe.MatchString(line) {
			end := offset + len(line)
			blocks = append(blocks, models.Block{
				ID:          fmt.Sprintf("%s:%d-%d", sourcePath, offset, end),
				Content:     line,
				SourcePath:  sourcePath,
				StartOffset: offset,
				EndOffset:   end,
				IsVisible:   true,
			})
		}

		if lineEnd < 0 {
			return blocks
		}
		offset = next
	}
}

// resolveEnd picks the block end for the match ending at matchEnd.
// Candidate A is the next genuine horizontal rule line; candidate B is the
// start of the next reference occurrence. A wins when it exists and
// precedes B; otherwise B; otherwise end of text.
func (e *Extractor) resolveEnd(text string, matchEnd int, matches [][]int, idx int) int {
	ruleAt := nextHorizontalRule(text, matchEnd)

	nextRef := -1
	if idx+1 < len(matches) {
		nextRef = matches[idx+1][0]
	}

	switch {
	case ruleAt >= 0 && (nextRef < 0 || ruleAt < nextRef):
		return ruleAt
	case nextRef >= 0:
		return nextRef
	default:
		return len(text)
	}
}

// nextHorizontalRule returns the offset of the first line after from whose
// trimmed content is three or more dashes and nothing else. Any line
// containing a pipe is skipped: table separator rows look like rules but
// are not structural boundaries.
func nextHorizontalRule(text string, from int) int {
	// Start scanning at the line following the one containing from.
	offset := strings.IndexByte(text[from:], '\n')
	if offset < 0 {
		return -1
	}
	offset = from + offset + 1

	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = text[offset:]
		} else {
			line = text[offset : offset+lineEnd]
		}

		if !strings.Contains(line, "|") && horizontalRuleRe.MatchString(strings.TrimSpace(line)) {
			return offset
		}

		if lineEnd < 0 {
			return -1
		}
		offset += lineEnd + 1
	}
	return -1
}

// lineStartBefore scans backward from pos to the previous line break, or 0.
func lineStartBefore(text string, pos int) int {
	if i := strings.LastIndexByte(text[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// containsHeadingLine reports whether any line of span is a heading line.
func containsHeadingLine(span string) bool {
	for _, line := range strings.Split(span, "\n") {
		if headingLineRe.MatchString(line) {
			return true
		}
	}
	return false
}

// referencePattern matches a bracketed reference to noteName, optionally
// preceded by a path segment and optionally followed by a display alias.
func referencePattern(noteName string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)\[\[(?:[^\[\]|#]*/)?` + regexp.QuoteMeta(noteName) + `(?:#[^\[\]|]*)?(?:\|[^\[\]]*)?\]\]`,
	)
}
