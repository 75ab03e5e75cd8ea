package decode

import (
	"fmt"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXing decodes regions with the QR reader from github.com/makiuchi-d/gozxing.
type ZXing struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewZXing returns a ZXing decoder. tryHarder trades speed for accuracy.
func NewZXing(tryHarder bool) *ZXing {
	z := &ZXing{}
	if tryHarder {
		z.hints = map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		}
	}
	return z
}

// Decode implements Decoder.
func (z *ZXing) Decode(region Region) ([]Symbol, error) {
	if region.Empty() {
		return nil, ErrEmptyRegion
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(region.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to binarize region: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, z.hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSymbol, err)
	}
	return []Symbol{{Payload: []byte(result.GetText())}}, nil
}
