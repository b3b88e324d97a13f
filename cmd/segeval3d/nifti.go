package main

import (
	"fmt"
	"math"

	"github.com/henghuang/nifti"

	"segeval3d/pkg/volume"
)

// SafelyNiftiParse consumes panics emitted by the nifti library, which are
// inappropriate and must be captured in order to turn them into recoverable
// errors.
func SafelyNiftiParse(filename string, rdata bool) (parsedData nifti.Nifti1Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	parsedData.LoadImage(filename, rdata)

	return
}

// loadLabelVolume reads a .nii or .nii.gz file and converts its first
// timepoint into a label volume, rounding voxel intensities to the
// nearest integer class identifier. It also returns the raw voxel
// intensities flattened in the same order, for the similarity scores.
func loadLabelVolume(filename string) (*volume.LabelVolume, []float64, error) {
	img, err := SafelyNiftiParse(filename, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	dims := img.GetDims()
	xm, ym, zm := dims[0], dims[1], dims[2]
	if xm == 0 || ym == 0 || zm == 0 {
		return nil, nil, fmt.Errorf("%s: volume has empty dimensions (%d, %d, %d)", filename, xm, ym, zm)
	}

	labels := make([]int32, 0, xm*ym*zm)
	raw := make([]float64, 0, xm*ym*zm)

	// Row-major over (x, y, z), matching the volume layout (H, W, D)
	for x := 0; x < xm; x++ {
		for y := 0; y < ym; y++ {
			for z := 0; z < zm; z++ {
				intensity := float64(img.GetAt(x, y, z, 0))
				labels = append(labels, int32(math.Round(intensity)))
				raw = append(raw, intensity)
			}
		}
	}

	v, err := volume.FromData(labels, xm, ym, zm)
	if err != nil {
		return nil, nil, err
	}

	return v, raw, nil
}
