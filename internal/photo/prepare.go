// Package photo prepares image files for upload: large photos are
// downscaled and re-encoded as JPEG so uploads stay reasonably sized.
package photo

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/nfnt/resize"
)

const (
	// MaxEdge is the longest side an uploaded photo is allowed to have.
	MaxEdge = 1600

	jpegQuality = 85
)

// Prepared is the upload-ready form of a photo.
type Prepared struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Prepare downscales data to fit within MaxEdge on its longest side and
// re-encodes it as JPEG. Files that are not decodable images, or images
// already within bounds, pass through unchanged.
func Prepare(data []byte, filename string) Prepared {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Prepared{Data: data, Filename: filename, ContentType: "application/octet-stream"}
	}

	bounds := img.Bounds()
	if bounds.Dx() <= MaxEdge && bounds.Dy() <= MaxEdge {
		return Prepared{Data: data, Filename: filename, ContentType: "image/" + format}
	}

	scaled := resize.Thumbnail(MaxEdge, MaxEdge, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Prepared{Data: data, Filename: filename, ContentType: "image/" + format}
	}
	return Prepared{
		Data:        buf.Bytes(),
		Filename:    jpegName(filename),
		ContentType: "image/jpeg",
	}
}

func jpegName(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		filename = filename[:i]
	}
	return filename + ".jpg"
}
