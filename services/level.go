package services

import (
	"regexp"
	"strings"
)

// ItemLevel is the inferred depth of a bill item in the numbering hierarchy.
type ItemLevel int

const (
	LevelMain   ItemLevel = 0 // main item, e.g. "1.0"
	LevelSub    ItemLevel = 1 // sub-item, e.g. "a", "iii", "2"
	LevelSubSub ItemLevel = 2 // sub-sub-item, e.g. "3.1"
)

var (
	decimalZeroPattern = regexp.MustCompile(`^\d+\.0$`)
	integerPattern     = regexp.MustCompile(`^\d+$`)
	letterPattern      = regexp.MustCompile(`(?i)^[a-z]$`)
	romanPattern       = regexp.MustCompile(`(?i)^[ivxlcdm]+$`)
)

// isDecimalZero reports whether tok looks like "<integer>.0".
func isDecimalZero(tok string) bool {
	return decimalZeroPattern.MatchString(tok)
}

// isBareDecimal reports whether tok contains a dot but does not end in ".0".
func isBareDecimal(tok string) bool {
	return strings.Contains(tok, ".") && !strings.HasSuffix(tok, ".0")
}

// isSimpleToken reports whether tok is a plain integer, a single letter or a
// roman numeral.
func isSimpleToken(tok string) bool {
	return integerPattern.MatchString(tok) ||
		letterPattern.MatchString(tok) ||
		romanPattern.MatchString(tok)
}

// ClassifyLevel infers the hierarchy level of an item from its own number and
// the number of the item immediately before it. A nil prev means the item is
// the first in the list.
//
// Precedence:
//  1. after a decimal-zero item, a simple token is a sub-item and a bare
//     decimal is a sub-sub-item;
//  2. a decimal-zero token is a main item, unless it follows a simple token,
//     in which case the numbering restarted under a sub-item (sub-sub-item);
//  3. a bare decimal is a sub-sub-item;
//  4. a simple token is a sub-item;
//  5. anything else is a main item.
func ClassifyLevel(itemNo string, prev *string) ItemLevel {
	current := strings.TrimSpace(itemNo)
	if current == "" {
		return LevelMain
	}

	hasPrev := prev != nil
	previous := ""
	if hasPrev {
		previous = strings.TrimSpace(*prev)
	}

	if hasPrev && isDecimalZero(previous) {
		if isSimpleToken(current) {
			return LevelSub
		}
		if isBareDecimal(current) {
			return LevelSubSub
		}
	}

	if isDecimalZero(current) {
		if hasPrev && isSimpleToken(previous) {
			return LevelSubSub
		}
		return LevelMain
	}

	if isBareDecimal(current) {
		return LevelSubSub
	}
	if isSimpleToken(current) {
		return LevelSub
	}
	return LevelMain
}

// AssignLevels returns a copy of items with Level recomputed in one sequential
// scan. Each item's raw number is fed forward as the previous token of the
// next item, so the result only depends on the order of the full list.
func AssignLevels(items []BillItem) []BillItem {
	out := make([]BillItem, len(items))
	var prev *string
	for i, item := range items {
		item.Level = ClassifyLevel(item.ItemNo, prev)
		out[i] = item
		no := items[i].ItemNo
		prev = &no
	}
	return out
}
