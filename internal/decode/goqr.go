package decode

import (
	"fmt"

	"github.com/liyue201/goqr"
)

// GoQR decodes regions with the pure-Go quirc port in github.com/liyue201/goqr.
// Pixels are fed straight into its recognizer, so no image conversion happens.
type GoQR struct{}

// Decode implements Decoder.
func (GoQR) Decode(region Region) ([]Symbol, error) {
	if region.Empty() {
		return nil, ErrEmptyRegion
	}

	rec := goqr.NewRecognizer(region.Width, region.Height)
	if rec == nil {
		return nil, ErrEmptyRegion
	}

	rec.Begin()
	for y := 0; y < region.Height; y++ {
		row := region.Pix[y*region.Width : (y+1)*region.Width]
		for x, v := range row {
			rec.SetPixel(x, y, v)
		}
	}
	rec.End()

	count := rec.Count()
	if count == 0 {
		return nil, ErrNoSymbol
	}

	var symbols []Symbol
	var lastErr error
	for i := 0; i < count; i++ {
		data, err := rec.Decode(i)
		if err != nil {
			lastErr = err
			continue
		}
		payload := make([]byte, len(data.Payload))
		copy(payload, data.Payload)
		symbols = append(symbols, Symbol{Payload: payload})
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoSymbol, lastErr)
	}
	return symbols, nil
}
