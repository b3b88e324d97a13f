package metrics

import (
	"segeval3d/internal/models"
	"segeval3d/pkg/volume"
)

// ClassStats computes the per-class confusion counts and derived
// scores over the union of the classes found in either volume, in
// ascending label order. Classes absent from the ground truth carry
// accuracy 0; classes absent from either volume carry IoU 0.
func ClassStats(evalSegm, gtSegm *volume.LabelVolume) ([]models.ClassStat, error) {
	cl, nCl := volume.UnionClasses(evalSegm, gtSegm)
	evalMask, gtMask, err := volume.ExtractBothMasks(evalSegm, gtSegm, cl)
	if err != nil {
		return nil, err
	}

	stats := make([]models.ClassStat, nCl)
	for i, c := range cl {
		nij := evalMask.Count(i)
		ti := gtMask.Count(i)
		nii := evalMask.Intersection(gtMask, i)

		stat := models.ClassStat{
			Label:       c,
			GroundTruth: ti,
			Predicted:   nij,
			Matched:     nii,
		}
		if ti != 0 {
			stat.Accuracy = float64(nii) / float64(ti)
		}
		if ti != 0 && nij != 0 {
			stat.IoU = float64(nii) / float64(ti+nij-nii)
		}
		stats[i] = stat
	}

	return stats, nil
}
