package domain

// Exact pixel targets for promotional images.
const (
	IconSize             = 1024
	FeatureGraphicWidth  = 1024
	FeatureGraphicHeight = 500
)

// ImageArtifact describes one post-processed image written to disk.
type ImageArtifact struct {
	Path   string
	Width  int
	Height int
	Format string
	Bytes  int64
}
