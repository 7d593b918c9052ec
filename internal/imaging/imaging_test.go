package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return EncodeDataURI("image/png", buf.Bytes())
}

func decodedSize(t *testing.T, uri string) (int, int) {
	t.Helper()
	_, data, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("parse result uri: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result config: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestNormalizeDownscalesWide(t *testing.T) {
	uri := pngDataURI(t, 800, 200)

	out, err := Normalize(uri, 400)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	w, h := decodedSize(t, out)
	if w != 400 || h != 100 {
		t.Fatalf("got %dx%d, want 400x100", w, h)
	}
}

func TestNormalizeDownscalesTall(t *testing.T) {
	uri := pngDataURI(t, 100, 500)

	out, err := Normalize(uri, 250)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	w, h := decodedSize(t, out)
	if w != 50 || h != 250 {
		t.Fatalf("got %dx%d, want 50x250", w, h)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	uri := pngDataURI(t, 300, 200)

	out, err := Normalize(uri, 400)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out != uri {
		t.Fatal("within-bounds image was re-encoded")
	}
}

func TestParseDataURIErrors(t *testing.T) {
	cases := []struct {
		name string
		uri  string
	}{
		{"not a data uri", "https://example.com/a.png"},
		{"missing comma", "data:image/png;base64"},
		{"not base64 encoded", "data:text/plain,hello"},
		{"bad payload", "data:image/png;base64,!!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseDataURI(tc.uri); err == nil {
				t.Fatalf("no error for %q", tc.uri)
			}
		})
	}
}

func TestParseEncodeRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0xff}
	uri := EncodeDataURI("image/png", data)
	mt, got, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if mt != "image/png" || !bytes.Equal(got, data) {
		t.Fatalf("round trip: %q %v", mt, got)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	uri := EncodeDataURI("image/png", []byte("not an image"))
	if _, err := Normalize(uri, 400); err == nil {
		t.Fatal("no error for undecodable payload")
	}
}
