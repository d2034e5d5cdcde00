// Package qr renders join URLs as QR codes and reads them back from images.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoder registration for Decode
	_ "image/png"  // decoder registration for Decode
	"io"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// ErrNoCode is returned when an image carries no readable QR code.
var ErrNoCode = errors.New("no QR code found in image")

// Code is an encoded QR symbol.
type Code struct {
	Content string
	q       *qrcode.QRCode
}

// Encode builds a QR symbol for content with medium error correction.
func Encode(content string) (*Code, error) {
	if content == "" {
		return nil, errors.New("qr: empty content")
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	return &Code{Content: content, q: q}, nil
}

// PNG renders the symbol as a size x size PNG.
func (c *Code) PNG(size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return c.q.PNG(size)
}

// Terminal renders the symbol with half-block characters for a terminal.
func (c *Code) Terminal() string { return c.q.ToSmallString(false) }

// Image returns the symbol as an image.
func (c *Code) Image(size int) image.Image {
	if size <= 0 {
		size = DefaultSize
	}
	return c.q.Image(size)
}

// DecodeImage reads the text of the first QR code in img.
func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("qr: %w", err)
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return res.GetText(), nil
}

// Decode reads a PNG or JPEG stream and returns the QR text it carries.
func Decode(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("qr: read image: %w", err)
	}
	return DecodeImage(img)
}

// DecodeBytes is Decode over an in-memory image.
func DecodeBytes(b []byte) (string, error) { return Decode(bytes.NewReader(b)) }
