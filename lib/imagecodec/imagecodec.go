// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package imagecodec turns asset bytes into pixels and back.
//
// The pack pipeline only needs two capabilities: decode an uploaded
// sprite in whatever format the author supplied, and encode atlas and
// sliced sprite images as PNG. [Default] decodes PNG, JPEG, GIF, WebP
// and BMP; hosts with their own decoders implement [Decoder].
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for bytes no registered decoder
// recognizes.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder decodes image bytes.
type Decoder interface {
	Decode(data []byte) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (image.Image, error)

// Decode calls f.
func (f DecoderFunc) Decode(data []byte) (image.Image, error) { return f(data) }

// Default returns the decoder backed by the registered image formats.
func Default() Decoder { return DecoderFunc(decode) }

func decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w (%d bytes)", ErrUnsupportedFormat, len(data))
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s image: empty bounds", format)
	}
	return img, nil
}

// ToNRGBA returns img as an *image.NRGBA anchored at the origin,
// converting if necessary. NRGBA input keeps its exact pixel values.
func ToNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if ok && bounds.Min == (image.Point{}) {
		return nrgba
	}
	converted := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if !ok {
		draw.Draw(converted, converted.Rect, img, bounds.Min, draw.Src)
		return converted
	}
	rowBytes := bounds.Dx() * 4
	for y := 0; y < bounds.Dy(); y++ {
		from := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(converted.Pix[y*converted.Stride:y*converted.Stride+rowBytes], nrgba.Pix[from:from+rowBytes])
	}
	return converted
}

// EncodePNG encodes img as PNG with best compression, so identical
// pixels always produce identical bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buffer.Bytes(), nil
}
