// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package decode

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/spectraframe/spectraframe/raster"
)

// bmpHeaderSize is the fixed BITMAPFILEHEADER + BITMAPINFOHEADER size.
const bmpHeaderSize = 54

// bmpHeader holds the header fields the decoders care about.
type bmpHeader struct {
	dataOffset  int
	width       int
	height      int
	bitsPerPix  int
	compression uint32
}

// parseBMPHeader validates the 54-byte header. It fails fast with
// ErrTruncatedHeader before any pixel allocation.
func parseBMPHeader(data []byte) (bmpHeader, error) {
	if len(data) < bmpHeaderSize {
		return bmpHeader{}, ErrTruncatedHeader
	}
	if data[0] != 'B' || data[1] != 'M' {
		return bmpHeader{}, fmt.Errorf("%w: bad signature", ErrDecodeFailed)
	}
	h := bmpHeader{
		dataOffset:  int(binary.LittleEndian.Uint32(data[10:14])),
		width:       int(int32(binary.LittleEndian.Uint32(data[18:22]))),
		height:      int(int32(binary.LittleEndian.Uint32(data[22:26]))),
		bitsPerPix:  int(binary.LittleEndian.Uint16(data[28:30])),
		compression: binary.LittleEndian.Uint32(data[30:34]),
	}
	return h, nil
}

// decodeBMP decodes uncompressed 8-bit indexed and 24-bit BMP payloads.
// Rows are stored bottom-up in the file; the decoders reverse them so the
// raster reads top-down. Any other bit depth or a compressed stream yields
// ErrUnsupportedBMP.
func decodeBMP(data []byte, cw, ch int) (*raster.Image, error) {
	h, err := parseBMPHeader(data)
	if err != nil {
		return nil, err
	}
	if h.compression != 0 {
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupportedBMP, h.compression)
	}
	if h.width <= 0 || h.height <= 0 {
		// Top-down files encode a negative height; the panel assets are
		// always bottom-up.
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedBMP, h.width, h.height)
	}

	img := raster.New(cw, ch)
	var extent image.Point
	switch h.bitsPerPix {
	case 8:
		extent, err = decodeBMP8(img, data, h)
	case 24:
		extent, err = decodeBMP24(img, data, h)
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedBMP, h.bitsPerPix)
	}
	if err != nil {
		return nil, err
	}
	return fitCanvas(img, extent, cw, ch), nil
}

// decodeBMP8 handles the legacy pre-dithered assets: 8-bit palette indices
// with a full 256-entry BGRA color table following the header.
func decodeBMP8(img *raster.Image, data []byte, h bmpHeader) (image.Point, error) {
	const tableSize = 256 * 4
	table := data[bmpHeaderSize:]
	if len(table) < tableSize {
		return image.Point{}, fmt.Errorf("%w: truncated color table", ErrDecodeFailed)
	}
	table = table[:tableSize]

	// Rows are padded to 4-byte boundaries.
	rowSize := (h.width*8 + 31) / 32 * 4
	for fileRow := 0; fileRow < h.height; fileRow++ {
		off := h.dataOffset + fileRow*rowSize
		if off < bmpHeaderSize || off+rowSize > len(data) {
			return image.Point{}, fmt.Errorf("%w: truncated pixel data", ErrDecodeFailed)
		}
		y := h.height - 1 - fileRow
		if y >= img.H {
			continue
		}
		for x := 0; x < h.width && x < img.W; x++ {
			idx := int(data[off+x]) * 4
			img.SetRGB(x, y, table[idx+2], table[idx+1], table[idx])
		}
	}
	return clipExtent(h, img), nil
}

// decodeBMP24 handles plain truecolor files: bottom-up BGR triples with
// per-row padding to 4-byte boundaries.
func decodeBMP24(img *raster.Image, data []byte, h bmpHeader) (image.Point, error) {
	rowSize := (h.width*24 + 31) / 32 * 4
	for fileRow := 0; fileRow < h.height; fileRow++ {
		off := h.dataOffset + fileRow*rowSize
		if off < bmpHeaderSize || off+rowSize > len(data) {
			return image.Point{}, fmt.Errorf("%w: truncated pixel data", ErrDecodeFailed)
		}
		y := h.height - 1 - fileRow
		if y >= img.H {
			continue
		}
		for x := 0; x < h.width && x < img.W; x++ {
			p := off + x*3
			img.SetRGB(x, y, data[p+2], data[p+1], data[p])
		}
	}
	return clipExtent(h, img), nil
}

func clipExtent(h bmpHeader, img *raster.Image) image.Point {
	e := image.Pt(h.width, h.height)
	if e.X > img.W {
		e.X = img.W
	}
	if e.Y > img.H {
		e.Y = img.H
	}
	return e
}
