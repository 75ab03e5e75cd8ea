package synth

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/gaochangyu/qrcode-positioning/internal/capture"
	"github.com/gaochangyu/qrcode-positioning/internal/decode"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePlacesSymbol(t *testing.T) {
	opts := DefaultOptions("synthetic")
	frame, err := Frame(opts)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 640, 480), frame.Bounds())
	assert.Equal(t, uint8(255), frame.GrayAt(10, 10).Y)

	symbols, err := decode.GoQR{}.Decode(decode.Crop(frame, image.Rect(162, 82, 478, 398)))
	require.NoError(t, err)
	sym, ok := decode.First(symbols)
	require.True(t, ok)
	assert.Equal(t, "synthetic", sym.Data())
}

func TestFrameBackground(t *testing.T) {
	opts := DefaultOptions("grey")
	opts.Gray = 180
	frame, err := Frame(opts)
	require.NoError(t, err)
	assert.Equal(t, uint8(180), frame.GrayAt(5, 5).Y)
}

func TestFrameErrors(t *testing.T) {
	_, err := Frame(DefaultOptions(""))
	assert.Error(t, err)

	opts := DefaultOptions("x")
	opts.Offset = image.Pt(500, 400)
	_, err = Frame(opts)
	assert.Error(t, err)

	opts = DefaultOptions("x")
	opts.Canvas = image.Point{}
	_, err = Frame(opts)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]qrcode.RecoveryLevel{
		"l": qrcode.Low, "M": qrcode.Medium, "": qrcode.Medium, "q": qrcode.High, "H": qrcode.Highest,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("X")
	assert.Error(t, err)
}

func TestSaveFormats(t *testing.T) {
	frame, err := Frame(DefaultOptions("saved"))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"f.png", "f.tif", "f.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, frame), name)
		img, err := capture.LoadImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, frame.Bounds(), img.Bounds(), name)
	}

	assert.Error(t, Encode(&bytes.Buffer{}, frame, ".bmp"))
}
