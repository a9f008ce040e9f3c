package encoding

import (
	"go.uber.org/zap"

	"sentencescramble/internal/models"
)

// EncodeLegacy encodes a as its keyed JSON object. New links use
// EncodeCompact; this format is written only when that fails.
func EncodeLegacy(a models.Assignment) (string, error) {
	return toBase64URL(a)
}

// DecodeLegacy parses a legacy payload, returning nil on any failure.
// Sentences stored as bare strings are accepted.
func DecodeLegacy(payload string) *models.Assignment {
	a, err := decodeLegacy(payload)
	if err != nil {
		zap.L().Debug("discarding legacy assignment payload", zap.Error(err))
		return nil
	}
	return a
}

func decodeLegacy(payload string) (*models.Assignment, error) {
	v, err := fromBase64URL(payload)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, layoutError("payload", v)
	}
	return buildAssignment(obj["id"], obj["title"], obj["version"], obj["seed"], obj["options"], obj["sentences"])
}
