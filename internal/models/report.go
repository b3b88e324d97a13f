package models

// ClassStat holds the confusion counts and derived scores for a single
// class, index-aligned to the union class set of an evaluation.
type ClassStat struct {
	// Label is the class identifier
	Label int32

	// GroundTruth is t_i, the number of ground truth voxels of this class
	GroundTruth int

	// Predicted is n_ij, the number of predicted voxels of this class
	Predicted int

	// Matched is n_ii, the number of voxels of this class labeled
	// identically in both volumes
	Matched int

	// Accuracy is Matched / GroundTruth, or 0 when the class is absent
	// from the ground truth
	Accuracy float64

	// IoU is Matched / (GroundTruth + Predicted - Matched), or 0 when
	// the class is absent from either volume
	IoU float64
}

// Report holds the full set of evaluation scores for one prediction /
// ground truth pair.
type Report struct {
	// PixelAccuracy is the fraction of ground truth voxels labeled
	// correctly by the prediction
	PixelAccuracy float64

	// MeanAccuracy is the per-class accuracy averaged over the ground
	// truth classes
	MeanAccuracy float64

	// MeanIoU is the per-class intersection-over-union summed over the
	// union classes and divided by the ground truth class count
	MeanIoU float64

	// FrequencyWeightedIoU is the per-class IoU weighted by ground
	// truth frequency and normalized by the total voxel count
	FrequencyWeightedIoU float64

	// Dice is the Dice score of the flattened volumes; a similarity
	// coefficient by default, or its 1-x loss form when configured
	Dice float64

	// Jaccard is the Jaccard score of the flattened volumes, under the
	// same coefficient/loss policy as Dice
	Jaccard float64

	// PerClass holds the per-class confusion statistics over the union
	// class set, in ascending label order
	PerClass []ClassStat
}
