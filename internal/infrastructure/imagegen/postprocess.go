package imagegen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/doeshing/asoforge/internal/domain"
)

// normalize decodes raw image bytes and scale-crops them to exactly
// width x height: scale so the shorter relative side fills the target, then
// center-crop the overflow. Providers rarely return the feature-graphic
// aspect ratio natively.
func normalize(raw []byte, width, height int) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding provider image: %w", err)
	}

	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("provider returned an empty image")
	}
	if srcW == width && srcH == height {
		return src, nil
	}

	// Scale to cover the target, keeping aspect ratio.
	scale := float64(width) / float64(srcW)
	if s := float64(height) / float64(srcH); s > scale {
		scale = s
	}
	scaledW := int(float64(srcW)*scale + 0.5)
	scaledH := int(float64(srcH)*scale + 0.5)

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, srcBounds, draw.Over, nil)

	offsetX := (scaledW - width) / 2
	offsetY := (scaledH - height) / 2
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), scaled, image.Pt(offsetX, offsetY), draw.Src)
	return out, nil
}

// writePNG encodes img to path and returns the artifact descriptor.
func writePNG(img image.Image, path string) (domain.ImageArtifact, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.ImageArtifact{}, err
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.ImageArtifact{}, err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("encoding png: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return domain.ImageArtifact{}, err
	}

	bounds := img.Bounds()
	return domain.ImageArtifact{
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: "png",
		Bytes:  info.Size(),
	}, nil
}
