package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const maxQueryLength = 100

// Compiled regex patterns for query preprocessing
var (
	// Characters the upstream search endpoint rejects or treats as syntax
	specialCharsPattern = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~$?;:"'` + "`" + `,]`)

	// Hyphens not joining two word characters (keeps "Mercedes-Benz", "F-150")
	looseHyphenPattern = regexp.MustCompile(`(^|\s)-+|-+(\s|$)`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// QueryPreprocessor cleans free-text year/make/model search terms before they are sent upstream
type QueryPreprocessor struct {
	logger             zerolog.Logger
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger zerolog.Logger, enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{
		logger:             logger,
		enableDebugLogging: enableDebugLogging,
	}
}

// PreprocessQuery strips rejected characters, normalizes whitespace and caps the length
func (p *QueryPreprocessor) PreprocessQuery(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	original := text

	cleaned := strings.ReplaceAll(text, "&", " and ")
	cleaned = specialCharsPattern.ReplaceAllString(cleaned, " ")
	cleaned = looseHyphenPattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxQueryLength {
		cut := maxQueryLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
		// Try to cut at word boundary
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	if p.enableDebugLogging {
		p.logger.Debug().Str("input", original).Str("output", cleaned).Msg("preprocessed search query")
	}

	return cleaned
}
