package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"segeval3d/pkg/config"
	"segeval3d/pkg/metrics"
)

func main() {
	// Parse command line arguments
	predFile := flag.String("pred", "", "Predicted segmentation volume (.nii or .nii.gz)")
	gtFile := flag.String("gt", "", "Ground truth segmentation volume (.nii or .nii.gz)")
	configPath := flag.String("config", "segeval3d.yaml", "Path to YAML configuration file")
	perSlice := flag.Bool("per-slice", false, "Print the per-slice pixel accuracy profile")
	lossForm := flag.Bool("loss", false, "Report Dice/Jaccard as 1-x losses instead of coefficients")
	strictShape := flag.Bool("strict", false, "Require the two volumes to share dimensions")
	flag.Parse()

	// Validate inputs
	if *predFile == "" || *gtFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration; command line flags override the file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *lossForm {
		cfg.Metrics.LossForm = true
	}
	if *strictShape {
		cfg.Metrics.StrictShape = true
	}
	if *perSlice {
		cfg.Output.PerSlice = true
	}

	fmt.Println("================================")
	fmt.Println("VOLUMETRIC SEGMENTATION EVALUATION")
	fmt.Println("Metrics from Fully Convolutional Networks for Semantic Segmentation")
	fmt.Println("================================")

	// Load the two volumes
	if cfg.Output.Verbose {
		fmt.Printf("Loading predicted volume: %s\n", *predFile)
	}
	pred, predRaw, err := loadLabelVolume(*predFile)
	if err != nil {
		log.Fatalf("Failed to load predicted volume: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Loading ground truth volume: %s\n", *gtFile)
	}
	gt, gtRaw, err := loadLabelVolume(*gtFile)
	if err != nil {
		log.Fatalf("Failed to load ground truth volume: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Predicted volume shape: %v\n", pred.Shape)
		fmt.Printf("Ground truth volume shape: %v\n", gt.Shape)
	}

	// Evaluate
	evaluator := metrics.NewEvaluator(&metrics.Params{
		LossForm:    cfg.Metrics.LossForm,
		StrictShape: cfg.Metrics.StrictShape,
	})

	report, err := evaluator.EvaluateAll(pred, gt)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	// Similarity scores over the raw intensities, as loaded
	dice, err := evaluator.Dice(predRaw, gtRaw)
	if err != nil {
		log.Fatalf("Dice computation failed: %v", err)
	}
	jaccard, err := evaluator.Jaccard(predRaw, gtRaw)
	if err != nil {
		log.Fatalf("Jaccard computation failed: %v", err)
	}

	scoreLabel := "coefficient"
	if cfg.Metrics.LossForm {
		scoreLabel = "loss"
	}

	fmt.Printf("\nSegmentation Metrics:\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Pixel Accuracy: %.4f\n", report.PixelAccuracy)
	fmt.Printf("Mean Class Accuracy: %.4f\n", report.MeanAccuracy)
	fmt.Printf("Mean IoU: %.4f\n", report.MeanIoU)
	fmt.Printf("Frequency Weighted IoU: %.4f\n", report.FrequencyWeightedIoU)
	fmt.Printf("Dice %s (labels): %.4f\n", scoreLabel, report.Dice)
	fmt.Printf("Jaccard %s (labels): %.4f\n", scoreLabel, report.Jaccard)
	fmt.Printf("Dice %s (raw intensities): %.4f\n", scoreLabel, dice)
	fmt.Printf("Jaccard %s (raw intensities): %.4f\n", scoreLabel, jaccard)

	fmt.Printf("\nPer-class statistics:\n")
	fmt.Printf("%8s %12s %12s %12s %10s %10s\n",
		"class", "gt voxels", "predicted", "matched", "accuracy", "IoU")
	for _, stat := range report.PerClass {
		fmt.Printf("%8d %12d %12d %12d %10.4f %10.4f\n",
			stat.Label, stat.GroundTruth, stat.Predicted, stat.Matched,
			stat.Accuracy, stat.IoU)
	}

	// Per-slice profile if requested
	if cfg.Output.PerSlice {
		fmt.Printf("\nPer-slice pixel accuracy:\n")
		profile, err := evaluator.SliceAccuracyProfile(pred, gt)
		if err != nil {
			log.Fatalf("Failed to compute per-slice profile: %v", err)
		}
		for i, accuracy := range profile {
			fmt.Printf("slice %4d: %.4f\n", i, accuracy)
		}
	}
}
