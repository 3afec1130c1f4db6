// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package decode turns JPEG, PNG and BMP payloads into the canonical raster
// consumed by the dither stage.
//
// Every decoder fills a canvas-sized raster with the background color and
// overwrites it with decoded pixels, clipping per pixel; content that does
// not fill the canvas is scaled up with an aspect-preserving contain fit
// and centered. The format is selected from the leading magic bytes, never
// from file names.
package decode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"

	"github.com/spectraframe/spectraframe/raster"
)

// Decode failure taxonomy. Decoders return the first error encountered;
// there is no retry and no fallback between decoders for the same payload.
var (
	// ErrUnknownFormat means the payload matches no supported magic sequence
	// or is shorter than four bytes.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrTruncatedHeader means a BMP payload ends before the 54-byte header.
	ErrTruncatedHeader = errors.New("truncated BMP header")

	// ErrUnsupportedBMP means a BMP variant other than uncompressed 8-bit
	// indexed or 24-bit.
	ErrUnsupportedBMP = errors.New("unsupported BMP variant")

	// ErrDecodeFailed wraps a malformed compressed stream or truncated
	// pixel data.
	ErrDecodeFailed = errors.New("image decode failed")
)

// Format identifies a supported container.
type Format int

// Supported formats.
const (
	JPEG Format = iota
	PNG
	BMP
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Detect inspects the leading bytes of a payload. Payloads shorter than
// four bytes fail with ErrUnknownFormat.
func Detect(data []byte) (Format, error) {
	if len(data) < 4 {
		return 0, ErrUnknownFormat
	}
	switch {
	case data[0] == 0xFF && data[1] == 0xD8:
		return JPEG, nil
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return PNG, nil
	case data[0] == 'B' && data[1] == 'M':
		return BMP, nil
	}
	return 0, ErrUnknownFormat
}

// Decode decodes an in-memory payload into a cw x ch raster.
func Decode(data []byte, cw, ch int) (*raster.Image, error) {
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}
	switch f {
	case BMP:
		return decodeBMP(data, cw, ch)
	default:
		return decodeStream(f, bytes.NewReader(data), cw, ch)
	}
}

// DecodeReader decodes a streamed payload, typically an open file from the
// image cache. The compressed stream is pulled through the reader row by
// row rather than loaded up front; only BMP payloads, which are parsed in
// place, are read fully into memory.
func DecodeReader(r io.Reader, cw, ch int) (*raster.Image, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, ErrUnknownFormat
	}
	f, err := Detect(magic)
	if err != nil {
		return nil, err
	}
	if f == BMP {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		return decodeBMP(data, cw, ch)
	}
	return decodeStream(f, br, cw, ch)
}

// decodeStream runs the JPEG or PNG codec and copies the result into a
// fresh canvas raster through the shared row sink.
func decodeStream(f Format, r io.Reader, cw, ch int) (*raster.Image, error) {
	var (
		m   image.Image
		err error
	)
	switch f {
	case JPEG:
		m, err = jpeg.Decode(r)
	case PNG:
		m, err = png.Decode(r)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", f, ErrDecodeFailed, err)
	}

	img := raster.New(cw, ch)
	extent := copyRows(img, m)
	return fitCanvas(img, extent, cw, ch), nil
}

// copyRows delivers the decoded image one canvas-clipped row at a time
// into dst and returns the content extent. Rows wider than the canvas are
// truncated, rows beyond the canvas height dropped; an oversized source is
// a diagnostic, not an error.
func copyRows(dst *raster.Image, m image.Image) image.Point {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > dst.W || h > dst.H {
		log.Printf("decode: image %dx%d exceeds canvas %dx%d, clipping", w, h, dst.W, dst.H)
	}

	cw, chh := w, h
	if cw > dst.W {
		cw = dst.W
	}
	if chh > dst.H {
		chh = dst.H
	}
	row := make([]uint16, cw)
	for y := 0; y < chh; y++ {
		for x := 0; x < cw; x++ {
			r16, g16, b16, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = raster.Pack(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
		}
		copy(dst.Pix[y*dst.W:y*dst.W+cw], row)
	}
	return image.Pt(cw, chh)
}

// fitCanvas applies the contain-fit scaler when the decoded content does
// not fill the canvas in either dimension.
func fitCanvas(img *raster.Image, extent image.Point, cw, ch int) *raster.Image {
	if extent.X <= 0 || extent.Y <= 0 {
		return img
	}
	if extent.X >= cw && extent.Y >= ch {
		return img
	}
	return scaleToFit(img, extent.X, extent.Y)
}
