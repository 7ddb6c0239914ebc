package imagecache

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // png decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // webp decoder
)

// transform ограничивает ширину изображения maxWidth с сохранением пропорций
// и перекодирует его в JPEG с заданным качеством
func transform(data []byte, maxWidth, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	img := src
	if b.Dx() > maxWidth {
		height := b.Dy() * maxWidth / b.Dx()
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
