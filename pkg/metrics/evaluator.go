package metrics

import (
	"fmt"

	"segeval3d/internal/models"
	"segeval3d/pkg/volume"
)

// Params holds the evaluation policy switches. The zero value matches
// the historical behavior of the metrics: similarity scores are
// returned as coefficients and volume dimensions are not compared.
type Params struct {
	// LossForm selects the 1-x loss form for the Dice and Jaccard
	// scores instead of the similarity coefficient.
	LossForm bool

	// StrictShape makes every aggregate metric verify that the
	// evaluation and ground truth volumes share dimensions before
	// computing, failing with volume.ErrDimensionMismatch otherwise.
	// When off, mismatched volumes are scored as-is, which mirrors
	// comparing only the voxels both volumes define.
	StrictShape bool
}

// Evaluator applies a fixed evaluation policy to the segmentation
// metrics. Evaluators are stateless beyond their parameters and safe
// for concurrent use.
type Evaluator struct {
	params Params
}

// NewEvaluator creates an evaluator with the provided policy
// parameters. A nil params uses the defaults.
func NewEvaluator(params *Params) *Evaluator {
	e := &Evaluator{}
	if params != nil {
		e.params = *params
	}
	return e
}

// checkSize verifies the two volumes share height, width and depth.
// Only called in strict-shape mode.
func (e *Evaluator) checkSize(evalSegm, gtSegm *volume.LabelVolume) error {
	same, err := volume.SameDims(evalSegm, gtSegm)
	if err != nil {
		return err
	}
	if !same {
		return fmt.Errorf("metrics: eval shape %v vs gt shape %v: %w",
			evalSegm.Shape, gtSegm.Shape, volume.ErrDimensionMismatch)
	}
	return nil
}

func (e *Evaluator) checkVolumes(evalSegm, gtSegm *volume.LabelVolume) error {
	if !e.params.StrictShape {
		return nil
	}
	return e.checkSize(evalSegm, gtSegm)
}

// PixelAccuracy computes the pixel accuracy under the evaluator's
// shape policy.
func (e *Evaluator) PixelAccuracy(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return 0, err
	}
	return PixelAccuracy(evalSegm, gtSegm)
}

// MeanAccuracy computes the mean class accuracy under the evaluator's
// shape policy.
func (e *Evaluator) MeanAccuracy(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return 0, err
	}
	return MeanAccuracy(evalSegm, gtSegm)
}

// MeanIoU computes the mean intersection-over-union under the
// evaluator's shape policy.
func (e *Evaluator) MeanIoU(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return 0, err
	}
	return MeanIoU(evalSegm, gtSegm)
}

// FrequencyWeightedIoU computes the frequency-weighted IoU under the
// evaluator's shape policy.
func (e *Evaluator) FrequencyWeightedIoU(evalSegm, gtSegm *volume.LabelVolume) (float64, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return 0, err
	}
	return FrequencyWeightedIoU(evalSegm, gtSegm)
}

// Dice computes the Dice score of two flattened tensors, returning the
// coefficient or its 1-x loss form per the evaluator's policy.
func (e *Evaluator) Dice(pred, target []float64) (float64, error) {
	score, err := DiceCoefficient(pred, target)
	if err != nil {
		return 0, err
	}
	return e.applyForm(score), nil
}

// Jaccard computes the Jaccard score of two flattened tensors under
// the same coefficient/loss policy as Dice.
func (e *Evaluator) Jaccard(pred, target []float64) (float64, error) {
	score, err := JaccardIndex(pred, target)
	if err != nil {
		return 0, err
	}
	return e.applyForm(score), nil
}

func (e *Evaluator) applyForm(score float64) float64 {
	if e.params.LossForm {
		return 1 - score
	}
	return score
}

// EvaluateAll runs every metric on the pair and collects the scores
// and per-class statistics into a single report. The similarity scores
// are computed on the label volumes cast to flat float tensors.
func (e *Evaluator) EvaluateAll(evalSegm, gtSegm *volume.LabelVolume) (*models.Report, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return nil, err
	}

	report := &models.Report{}

	var err error
	if report.PixelAccuracy, err = PixelAccuracy(evalSegm, gtSegm); err != nil {
		return nil, err
	}
	if report.MeanAccuracy, err = MeanAccuracy(evalSegm, gtSegm); err != nil {
		return nil, err
	}
	if report.MeanIoU, err = MeanIoU(evalSegm, gtSegm); err != nil {
		return nil, err
	}
	if report.FrequencyWeightedIoU, err = FrequencyWeightedIoU(evalSegm, gtSegm); err != nil {
		return nil, err
	}

	pred := Flatten(evalSegm)
	target := Flatten(gtSegm)
	if report.Dice, err = e.Dice(pred, target); err != nil {
		return nil, err
	}
	if report.Jaccard, err = e.Jaccard(pred, target); err != nil {
		return nil, err
	}

	if report.PerClass, err = ClassStats(evalSegm, gtSegm); err != nil {
		return nil, err
	}

	return report, nil
}

// SliceAccuracyProfile computes the pixel accuracy of each 1-deep slab
// along the first axis, giving a per-slice quality profile through the
// volume. The two volumes must share their first-axis length; in
// strict-shape mode all dimensions are compared.
func (e *Evaluator) SliceAccuracyProfile(evalSegm, gtSegm *volume.LabelVolume) ([]float64, error) {
	if err := e.checkVolumes(evalSegm, gtSegm); err != nil {
		return nil, err
	}

	hEval, _, _, err := evalSegm.Dims()
	if err != nil {
		return nil, err
	}
	hGt, _, _, err := gtSegm.Dims()
	if err != nil {
		return nil, err
	}
	if hEval != hGt {
		return nil, fmt.Errorf("metrics: eval has %d slices, gt has %d: %w",
			hEval, hGt, volume.ErrDimensionMismatch)
	}

	profile := make([]float64, hEval)
	for i := 0; i < hEval; i++ {
		evalSlab, err := evalSegm.SliceAt(i)
		if err != nil {
			return nil, err
		}
		gtSlab, err := gtSegm.SliceAt(i)
		if err != nil {
			return nil, err
		}

		profile[i], err = PixelAccuracy(evalSlab, gtSlab)
		if err != nil {
			return nil, err
		}
	}

	return profile, nil
}
