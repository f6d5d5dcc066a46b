package converter

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// LoadTexture decodes a png, jpeg, gif, bmp, psd or tga image.
func LoadTexture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil && strings.ToLower(filepath.Ext(path)) == ".tga" {
		// tga has no magic number
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		img, err = tga.Decode(f)
	}
	return img, err
}

// encodeTexture rescales img and encodes it as png.
func encodeTexture(img image.Image, scale float32) (*bytes.Buffer, error) {
	rect := img.Bounds()
	if scale != 1.0 && scale > 0 {
		w, h := int(float32(rect.Dx())*scale), int(float32(rect.Dy())*scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		// nearest neighbor keeps pixel art sharp
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
		img = dst
	}
	w := new(bytes.Buffer)
	if err := png.Encode(w, img); err != nil {
		return nil, err
	}
	return w, nil
}
