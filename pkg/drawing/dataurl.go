package drawing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// EncodeDataURL renders img as a base64 PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}
	return "data:" + MimePNG + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes a base64 PNG or JPEG data URL.
func DecodeDataURL(s string) (image.Image, error) {
	return DecodeDataURLLimit(s, 0)
}

// DecodeDataURLLimit is DecodeDataURL for untrusted input. The image
// header is read first and anything declaring more than maxPixels pixels
// is refused before its pixels are allocated. maxPixels <= 0 disables the
// check.
func DecodeDataURLLimit(s string, maxPixels int) (image.Image, error) {
	mime, payload, err := splitDataURL(s)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	if maxPixels > 0 {
		var cfg image.Config
		switch mime {
		case MimePNG:
			cfg, err = png.DecodeConfig(bytes.NewReader(raw))
		case MimeJPEG:
			cfg, err = jpeg.DecodeConfig(bytes.NewReader(raw))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return nil, fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
		}
	}

	var img image.Image
	switch mime {
	case MimePNG:
		img, err = png.Decode(bytes.NewReader(raw))
	case MimeJPEG:
		img, err = jpeg.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return img, nil
}

// DataURLBytes returns the raw encoded image and its mime type without
// decoding the pixels.
func DataURLBytes(s string) ([]byte, string, error) {
	mime, payload, err := splitDataURL(s)
	if err != nil {
		return nil, "", err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return raw, mime, nil
}

func splitDataURL(s string) (mime, payload string, err error) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", "", fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}

	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	mime = strings.ToLower(mime)
	if mime != MimePNG && mime != MimeJPEG {
		return "", "", fmt.Errorf("%w: unsupported type %q", ErrInvalidDataURL, mime)
	}
	return mime, payload, nil
}
