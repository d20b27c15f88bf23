package engine

import (
	"fmt"
	"image"
	"io"
	"os"

	// Decoders registered for image.Decode. PNG and JPEG from the
	// standard library, BMP and TIFF from golang.org/x/image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	xdraw "golang.org/x/image/draw"
)

// decodeImage decodes any registered image format from r into RGBA.
func decodeImage(r io.Reader) (*image.RGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	Logger().Debug("engine: decoded image", "format", format)

	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	xdraw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return rgba, nil
}

// loadImageFile reads and decodes an image from disk, optionally scaling
// it down to fit within maxW x maxH (aspect preserved). A zero bound means
// unbounded.
func loadImageFile(path string, maxW, maxH int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	rgba, err := decodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", path, err)
	}
	return scaleToFit(rgba, maxW, maxH), nil
}

// scaleToFit downscales src to fit within maxW x maxH, preserving aspect
// ratio. Images already within bounds are returned unchanged; upscaling
// never happens.
func scaleToFit(src *image.RGBA, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}

	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
