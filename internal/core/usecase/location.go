package usecase

import (
	"errors"
	"unicode/utf16"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// AssignLocation maps key to a stable gazetteer entry. The hash runs over
// UTF-16 code units with 32-bit signed wraparound, so the result is identical
// on every platform and process.
func AssignLocation(key string, gazetteer []string) (string, error) {
	if len(gazetteer) == 0 {
		return "", domain.WrapError(domain.ErrInvalidArgument, "assign location", errors.New("gazetteer is empty"))
	}
	return gazetteer[locationIndex(hashKey(key), len(gazetteer))], nil
}

// LocationKey builds the hash key for an asset: source id first, category second.
func LocationKey(sourceID, category string) string {
	return sourceID + category
}

func hashKey(key string) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(key)) {
		hash = hash*31 + int32(unit)
	}
	return hash
}

func locationIndex(hash int32, n int) int {
	// int64 keeps abs(MinInt32) positive.
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}
