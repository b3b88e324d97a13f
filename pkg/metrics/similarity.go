package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"segeval3d/pkg/volume"
)

// smooth is the Laplace smoothing term added to both numerator and
// denominator of the similarity scores. It keeps the scores defined
// for all-zero inputs and bounds them away from 0.
const smooth = 1.0

// DiceCoefficient computes the Dice similarity coefficient
// (2 * sum(pred*target) + smooth) / (sum(pred^2) + sum(target^2) + smooth)
// over two flattened tensors of equal length. Higher is better; 1 is
// the supremum. Callers flatten their tensors before scoring, so any
// dimensionality is accepted.
func DiceCoefficient(pred, target []float64) (float64, error) {
	if err := checkFlatShapes(pred, target); err != nil {
		return 0, err
	}

	intersection := floats.Dot(pred, target)
	aSum := floats.Dot(pred, pred)
	bSum := floats.Dot(target, target)

	return (2*intersection + smooth) / (aSum + bSum + smooth), nil
}

// JaccardIndex computes the Jaccard similarity index
// (sum(pred*target) + smooth) / (sum(pred^2) + sum(target^2) - sum(pred*target) + smooth)
// over two flattened tensors of equal length. Higher is better.
func JaccardIndex(pred, target []float64) (float64, error) {
	if err := checkFlatShapes(pred, target); err != nil {
		return 0, err
	}

	intersection := floats.Dot(pred, target)
	aSum := floats.Dot(pred, pred)
	bSum := floats.Dot(target, target)

	return (intersection + smooth) / (aSum + bSum - intersection + smooth), nil
}

// checkFlatShapes verifies the two flattened tensors have equal length.
func checkFlatShapes(pred, target []float64) error {
	if len(pred) != len(target) {
		return fmt.Errorf("metrics: pred has %d elements, target has %d: %w",
			len(pred), len(target), volume.ErrDimensionMismatch)
	}
	return nil
}

// Flatten casts a label volume to a flat float64 tensor suitable for
// the similarity scores.
func Flatten(v *volume.LabelVolume) []float64 {
	flat := make([]float64, len(v.Data))
	for i, label := range v.Data {
		flat[i] = float64(label)
	}
	return flat
}
