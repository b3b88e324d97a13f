package metrics

import (
	"errors"
	"testing"

	"segeval3d/pkg/volume"
)

// TestNewEvaluatorDefaults verifies that a nil params yields the
// permissive, coefficient-form defaults
func TestNewEvaluatorDefaults(t *testing.T) {
	e := NewEvaluator(nil)

	if e.params.LossForm {
		t.Error("Expected LossForm off by default")
	}
	if e.params.StrictShape {
		t.Error("Expected StrictShape off by default")
	}
}

// TestEvaluatorLossForm verifies that the loss form returns the
// complement of the similarity coefficient
func TestEvaluatorLossForm(t *testing.T) {
	pred := []float64{1, 0, 0, 1, 0, 0, 1, 0, 0}
	target := []float64{1, 0, 0, 1, 1, 0, 1, 0, 0}

	coeff := NewEvaluator(nil)
	loss := NewEvaluator(&Params{LossForm: true})

	diceCoeff, err := coeff.Dice(pred, target)
	if err != nil {
		t.Fatalf("Dice failed: %v", err)
	}
	diceLoss, err := loss.Dice(pred, target)
	if err != nil {
		t.Fatalf("Dice failed: %v", err)
	}

	if !approxEqual(diceCoeff+diceLoss, 1.0) {
		t.Errorf("Expected loss to be 1 - coefficient, got %f and %f", diceCoeff, diceLoss)
	}

	jaccardCoeff, err := coeff.Jaccard(pred, target)
	if err != nil {
		t.Fatalf("Jaccard failed: %v", err)
	}
	jaccardLoss, err := loss.Jaccard(pred, target)
	if err != nil {
		t.Fatalf("Jaccard failed: %v", err)
	}

	if !approxEqual(jaccardCoeff+jaccardLoss, 1.0) {
		t.Errorf("Expected loss to be 1 - coefficient, got %f and %f", jaccardCoeff, jaccardLoss)
	}
}

// TestEvaluatorStrictShape verifies that strict-shape mode rejects
// volumes with different dimensions while the permissive default
// scores them
func TestEvaluatorStrictShape(t *testing.T) {
	gt := mustVolume(t, []int32{1, 1, 2, 2}, 1, 2, 2)
	eval := mustVolume(t, []int32{1, 1, 2, 2, 2, 2}, 1, 2, 3)

	strict := NewEvaluator(&Params{StrictShape: true})
	if _, err := strict.PixelAccuracy(eval, gt); !errors.Is(err, volume.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch in strict mode, got %v", err)
	}
	if _, err := strict.EvaluateAll(eval, gt); !errors.Is(err, volume.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch from EvaluateAll, got %v", err)
	}

	permissive := NewEvaluator(nil)
	if _, err := permissive.PixelAccuracy(eval, gt); err != nil {
		t.Errorf("Expected permissive mode to score mismatched volumes, got %v", err)
	}
}

// TestEvaluatorStrictShapeMatching verifies that strict-shape mode
// passes equally shaped volumes through unchanged
func TestEvaluatorStrictShapeMatching(t *testing.T) {
	gt := mustVolume(t, []int32{1, 1, 2, 2}, 1, 2, 2)

	strict := NewEvaluator(&Params{StrictShape: true})
	accuracy, err := strict.PixelAccuracy(gt, gt)
	if err != nil {
		t.Fatalf("PixelAccuracy failed in strict mode: %v", err)
	}
	if accuracy != 1.0 {
		t.Errorf("Expected accuracy 1.0, got %f", accuracy)
	}
}

// TestEvaluateAll verifies the combined report on identical volumes
func TestEvaluateAll(t *testing.T) {
	gt := mustVolume(t, []int32{0, 1, 1, 2, 2, 2, 0, 0}, 2, 2, 2)

	report, err := NewEvaluator(nil).EvaluateAll(gt, gt)
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}

	if report.PixelAccuracy != 1.0 {
		t.Errorf("Expected pixel accuracy 1.0, got %f", report.PixelAccuracy)
	}
	if report.MeanAccuracy != 1.0 {
		t.Errorf("Expected mean accuracy 1.0, got %f", report.MeanAccuracy)
	}
	if report.MeanIoU != 1.0 {
		t.Errorf("Expected mean IoU 1.0, got %f", report.MeanIoU)
	}
	if report.FrequencyWeightedIoU != 1.0 {
		t.Errorf("Expected frequency weighted IoU 1.0, got %f", report.FrequencyWeightedIoU)
	}
	if !approxEqual(report.Dice, 1.0) {
		t.Errorf("Expected Dice 1.0, got %f", report.Dice)
	}
	if !approxEqual(report.Jaccard, 1.0) {
		t.Errorf("Expected Jaccard 1.0, got %f", report.Jaccard)
	}

	if len(report.PerClass) != 3 {
		t.Fatalf("Expected 3 per-class entries, got %d", len(report.PerClass))
	}
	for _, stat := range report.PerClass {
		if stat.Accuracy != 1.0 || stat.IoU != 1.0 {
			t.Errorf("Expected perfect per-class scores, got %+v", stat)
		}
	}
}

// TestSliceAccuracyProfile verifies the per-slice accuracy profile on
// a volume with exactly one corrupted slice
func TestSliceAccuracyProfile(t *testing.T) {
	gt := mustVolume(t, []int32{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}, 3, 2, 2)
	eval := mustVolume(t, []int32{
		1, 1, 1, 1,
		2, 9, 9, 2,
		3, 3, 3, 3,
	}, 3, 2, 2)

	profile, err := NewEvaluator(nil).SliceAccuracyProfile(eval, gt)
	if err != nil {
		t.Fatalf("SliceAccuracyProfile failed: %v", err)
	}

	if len(profile) != 3 {
		t.Fatalf("Expected 3 slice accuracies, got %d", len(profile))
	}
	if profile[0] != 1.0 || profile[2] != 1.0 {
		t.Errorf("Expected perfect accuracy for untouched slices, got %v", profile)
	}
	if !approxEqual(profile[1], 0.5) {
		t.Errorf("Expected accuracy 0.5 for corrupted slice, got %f", profile[1])
	}
}

// TestSliceAccuracyProfileMismatchedDepth verifies that volumes with a
// different number of slices are rejected
func TestSliceAccuracyProfileMismatchedDepth(t *testing.T) {
	gt := mustVolume(t, []int32{1, 1, 2, 2}, 1, 2, 2)
	eval := mustVolume(t, []int32{1, 1, 2, 2, 3, 3, 4, 4}, 2, 2, 2)

	_, err := NewEvaluator(nil).SliceAccuracyProfile(eval, gt)
	if !errors.Is(err, volume.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}
