// Package metrics computes semantic segmentation evaluation metrics
// over 3D label volumes, following the formulation of "Fully
// Convolutional Networks for Semantic Segmentation" (Long et al.),
// extended to volumetric data.
//
// The aggregate metrics compare a predicted label volume against a
// ground truth label volume through per-class confusion counts:
//
//	n_ii - voxels of class i labeled i in both volumes
//	t_i  - voxels of class i in the ground truth
//	n_ij - voxels of class i in the prediction
//
// Degenerate denominators (an empty ground truth, a class absent from
// either volume) produce a score contribution of 0 rather than an
// error or NaN.
package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"segeval3d/pkg/volume"
)

// PixelAccuracy computes sum_i(n_ii) / sum_i(t_i) over the classes
// present in the ground truth. A ground truth with no voxels at all
// yields 0.
func PixelAccuracy(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	cl, _ := volume.Classes(gtSegm)
	evalMask, gtMask, err := volume.ExtractBothMasks(evalSegm, gtSegm, cl)
	if err != nil {
		return 0, err
	}

	sumNii := 0
	sumTi := 0
	for i := range cl {
		sumNii += evalMask.Intersection(gtMask, i)
		sumTi += gtMask.Count(i)
	}

	return ratioOrZero(float64(sumNii), float64(sumTi)), nil
}

// MeanAccuracy computes the arithmetic mean of the per-class accuracy
// n_ii / t_i over the classes present in the ground truth. A class with
// t_i == 0 keeps its slot in the average with accuracy 0.
func MeanAccuracy(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	cl, nCl := volume.Classes(gtSegm)
	evalMask, gtMask, err := volume.ExtractBothMasks(evalSegm, gtSegm, cl)
	if err != nil {
		return 0, err
	}
	if nCl == 0 {
		return 0, nil
	}

	accuracy := make([]float64, nCl)
	for i := range cl {
		nii := evalMask.Intersection(gtMask, i)
		ti := gtMask.Count(i)

		if ti != 0 {
			accuracy[i] = float64(nii) / float64(ti)
		}
	}

	return stat.Mean(accuracy, nil), nil
}

// MeanIoU computes the mean intersection-over-union
// (1/n_cl_gt) * sum_i(n_ii / (t_i + n_ij - n_ii)) over the union of
// the classes found in either volume. A class absent from either
// volume contributes 0. The divisor is the number of distinct ground
// truth classes, not the union count, so classes predicted but absent
// from the ground truth dilute the score.
func MeanIoU(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	cl, nCl := volume.UnionClasses(evalSegm, gtSegm)
	_, nClGt := volume.Classes(gtSegm)
	evalMask, gtMask, err := volume.ExtractBothMasks(evalSegm, gtSegm, cl)
	if err != nil {
		return 0, err
	}

	iu := make([]float64, nCl)
	for i := range cl {
		nij := evalMask.Count(i)
		ti := gtMask.Count(i)

		if nij == 0 || ti == 0 {
			continue
		}

		nii := evalMask.Intersection(gtMask, i)
		iu[i] = float64(nii) / float64(ti+nij-nii)
	}

	return ratioOrZero(floats.Sum(iu), float64(nClGt)), nil
}

// FrequencyWeightedIoU computes
// sum_i((t_i * n_ii) / (t_i + n_ij - n_ii)) / (H * W * D), weighting
// each class IoU by its ground truth frequency and normalizing by the
// total voxel count of the evaluation volume.
func FrequencyWeightedIoU(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	cl, nCl := volume.UnionClasses(evalSegm, gtSegm)
	evalMask, gtMask, err := volume.ExtractBothMasks(evalSegm, gtSegm, cl)
	if err != nil {
		return 0, err
	}

	weighted := make([]float64, nCl)
	for i := range cl {
		nij := evalMask.Count(i)
		ti := gtMask.Count(i)

		if nij == 0 || ti == 0 {
			continue
		}

		nii := evalMask.Intersection(gtMask, i)
		weighted[i] = float64(ti*nii) / float64(ti+nij-nii)
	}

	voxels, err := evalSegm.VoxelCount()
	if err != nil {
		return 0, err
	}

	return ratioOrZero(floats.Sum(weighted), float64(voxels)), nil
}

// ratioOrZero divides num by den, substituting 0 for a zero
// denominator so degenerate inputs never produce NaN or Inf.
func ratioOrZero(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
