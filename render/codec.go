// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP for Decode
)

// Format is an encoded still image format.
type Format int

const (
	// FormatPNG is lossless PNG (the default).
	FormatPNG Format = iota
	// FormatJPEG is baseline JPEG at quality 90.
	FormatJPEG
	// FormatBMP is uncompressed BMP.
	FormatBMP
	// FormatTIFF is deflate-compressed TIFF.
	FormatTIFF
)

// jpegQuality is the quality used for FormatJPEG.
const jpegQuality = 90

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	return "image/" + f.String()
}

// ParseFormat maps a name such as "png" or "jpg" to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "png", "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return FormatPNG, fmt.Errorf("render: unknown image format %q", name)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("render: unsupported format %v", f)
}

// DataURL encodes img as a base64 data URL.
func DataURL(img image.Image, f Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return "", err
	}
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reads a still image in any supported format.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}
