package scene

import (
	"fmt"
	"path/filepath"
)

// Output keys reported by renderers.
const (
	OutputImage             = "image"
	OutputSegmentation      = "segmentation"
	OutputSegmentationImage = "segmentation_image"
	OutputDepth             = "depth"
	OutputScene             = "scene"
)

// Paths names the files of one (test, angle) view inside Dir.
type Paths struct {
	Dir   string
	Test  int
	Angle int
}

// Prefix returns the shared file name prefix, test{i}_{j}.
func (p Paths) Prefix() string {
	return fmt.Sprintf("test%d_%d", p.Test, p.Angle)
}

func (p Paths) join(suffix string) string {
	return filepath.Join(p.Dir, p.Prefix()+suffix)
}

// Image is the colour image, test{i}_{j}.png.
func (p Paths) Image() string { return p.join(".png") }

// Segmentation is the raw segmentation array, test{i}_{j}segmentation.npy.
func (p Paths) Segmentation() string { return p.join("segmentation.npy") }

// SegmentationImage is the palette segmentation image, test{i}_{j}_segmentation.png.
func (p Paths) SegmentationImage() string { return p.join("_segmentation.png") }

// Depth is the scaled depth image, test{i}_{j}_depth.png.
func (p Paths) Depth() string { return p.join("_depth.png") }

// Scene is the scene description, test{i}_{j}_scene.json.
func (p Paths) Scene() string { return p.join("_scene.json") }

// All returns every path keyed by output name.
func (p Paths) All() map[string]string {
	return map[string]string{
		OutputImage:             p.Image(),
		OutputSegmentation:      p.Segmentation(),
		OutputSegmentationImage: p.SegmentationImage(),
		OutputDepth:             p.Depth(),
		OutputScene:             p.Scene(),
	}
}
