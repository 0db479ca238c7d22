package services

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
)

const pngDataURLPrefix = "data:image/png;base64,"

// MaxImageSize bounds an uploaded signature or paraphe.
const MaxImageSize = 2 << 20

// DecodePNGDataURL extracts the PNG behind a data URL as produced by a
// canvas signature pad.
func DecodePNGDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, pngDataURLPrefix) {
		return nil, common.NewValidationError("L'image doit être au format PNG")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, pngDataURLPrefix))
	if err != nil {
		return nil, common.NewValidationError("Image invalide")
	}
	if len(raw) > MaxImageSize {
		return nil, common.NewValidationError("Image trop volumineuse")
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, common.NewValidationError("Image invalide")
	}
	return raw, nil
}

// EncodePNGDataURL is the inverse of DecodePNGDataURL. Empty input gives "".
func EncodePNGDataURL(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(b)
}
