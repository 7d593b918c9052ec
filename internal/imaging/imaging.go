// Package imaging bounds the pixel payload of image items. Items store
// their image as a data URI; oversized uploads are downscaled once on
// creation so the content column stays reasonable.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// MaxPixelDim bounds the stored pixel dimensions of an image payload.
// Distinct from the 400-unit canvas footprint of the item: the payload
// keeps extra resolution so zooming in stays sharp.
const MaxPixelDim = 1024

// ParseDataURI splits a data URI into its media type and decoded bytes.
func ParseDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	meta, isB64 := strings.CutSuffix(meta, ";base64")
	if !isB64 {
		return "", nil, fmt.Errorf("data URI is not base64-encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return meta, data, nil
}

// EncodeDataURI is the inverse of ParseDataURI.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Normalize decodes a png or jpeg data URI and, when either pixel
// dimension exceeds maxDim, downscales it preserving aspect ratio and
// re-encodes as png. Within-bounds images pass through untouched.
func Normalize(uri string, maxDim int) (string, error) {
	_, data, err := ParseDataURI(uri)
	if err != nil {
		return "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return uri, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	w, h := cfg.Width, cfg.Height
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return EncodeDataURI("image/png", buf.Bytes()), nil
}
