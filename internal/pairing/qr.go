package pairing

import (
	"fmt"
	"strings"

	"rsc.io/qr"
)

const quietZone = 2

// RenderQR draws payload as a QR code using half-block characters, two
// modules per text row.
func RenderQR(payload string) (string, error) {
	code, err := qr.Encode(payload, qr.M)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr: %w", err)
	}
	lo := -quietZone
	hi := code.Size + quietZone
	var b strings.Builder
	for y := lo; y < hi; y += 2 {
		for x := lo; x < hi; x++ {
			top := code.Black(x, y)
			bottom := code.Black(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
