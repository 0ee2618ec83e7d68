package utils

import (
	"strings"
	"unicode/utf8"

	"bloghub/pkg/models"
)

// NormalizeCommentContent trims surrounding whitespace and validates the
// result against the 1-1000 character limit. Length is counted in
// Unicode characters, not bytes.
func NormalizeCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.ErrInvalidInput
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", models.ErrInvalidInput
	}
	return trimmed, nil
}

// NormalizePagination clamps page/pageSize to usable values instead of
// rejecting them. An out-of-range page is the caller's business; an
// out-of-range page size is not.
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
