package encoding

import (
	"strings"

	"go.uber.org/zap"

	"sentencescramble/internal/models"
)

// Format identifies which codec produced a link fragment
type Format string

const (
	FormatNone    Format = ""
	FormatCompact Format = "C"
	FormatLegacy  Format = "A"
)

const (
	compactPrefix = "C="
	legacyPrefix  = "A="
)

// EncodeFragment returns the link fragment for a, including the leading '#'.
// The compact format is preferred; "" means neither codec could encode a.
func EncodeFragment(a models.Assignment) string {
	payload, err := EncodeCompact(a)
	if err == nil {
		return "#" + compactPrefix + payload
	}
	zap.L().Warn("compact encoding failed, falling back to legacy",
		zap.String("assignment_id", a.ID), zap.Error(err))

	payload, err = EncodeLegacy(a)
	if err != nil {
		zap.L().Warn("legacy encoding failed",
			zap.String("assignment_id", a.ID), zap.Error(err))
		return ""
	}
	return "#" + legacyPrefix + payload
}

// DecodeFragment decodes a "#C=..." or "#A=..." fragment. A full link is
// accepted too; everything up to the last '#' is ignored. It returns nil and
// FormatNone when the fragment holds no valid assignment.
func DecodeFragment(fragment string) (*models.Assignment, Format) {
	fragment = strings.TrimSpace(fragment)
	if i := strings.LastIndexByte(fragment, '#'); i >= 0 {
		fragment = fragment[i+1:]
	}

	switch {
	case strings.HasPrefix(fragment, compactPrefix):
		if a := DecodeCompact(strings.TrimPrefix(fragment, compactPrefix)); a != nil {
			return a, FormatCompact
		}
	case strings.HasPrefix(fragment, legacyPrefix):
		if a := DecodeLegacy(strings.TrimPrefix(fragment, legacyPrefix)); a != nil {
			return a, FormatLegacy
		}
	}
	return nil, FormatNone
}

// FragmentFormat reports which codec a fragment or link claims to use,
// without decoding its payload
func FragmentFormat(fragment string) Format {
	if i := strings.LastIndexByte(fragment, '#'); i >= 0 {
		fragment = fragment[i+1:]
	}
	switch {
	case strings.HasPrefix(fragment, compactPrefix):
		return FormatCompact
	case strings.HasPrefix(fragment, legacyPrefix):
		return FormatLegacy
	}
	return FormatNone
}
