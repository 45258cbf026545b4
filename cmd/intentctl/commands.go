package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fastrand"

	"intent/internal/integration"
)

func newCollectCmd() *cobra.Command {
	var (
		age    float64
		income float64
		label  int
	)
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Submit a labeled training sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			if label != 0 && label != 1 {
				return fmt.Errorf("label must be 0 or 1, got %d", label)
			}
			client := integration.NewClient(flagAddr)
			resp, err := client.Collect(cmd.Context(), integration.CollectRequest{
				EntityID: flagEntity,
				Data: []integration.Sample{
					{Vec: []float64{age, income}, Label: label, CreatedAt: time.Now()},
				},
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			fmt.Printf("collect: %s\n", resp.Status)
			return nil
		},
	}
	cmd.Flags().Float64Var(&age, "age", 0, "age feature")
	cmd.Flags().Float64Var(&income, "income", 0, "income feature")
	cmd.Flags().IntVar(&label, "label", 0, "purchase label, 0 or 1")
	return cmd
}

func newPredictCmd() *cobra.Command {
	var (
		age       float64
		income    float64
		algorithm string
		k         int
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a feature pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := integration.NewClient(flagAddr)
			resp, err := client.Predict(cmd.Context(), integration.PredictRequest{
				EntityID:  flagEntity,
				Algorithm: algorithm,
				K:         k,
				Data:      []integration.Sample{{Vec: []float64{age, income}}},
			})
			if err != nil {
				return err
			}
			for _, item := range resp.Data {
				fmt.Printf("purchased=%v probability=%.4f\n", item.Purchased, item.Probability)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&age, "age", 0, "age feature")
	cmd.Flags().Float64Var(&income, "income", 0, "income feature")
	cmd.Flags().StringVar(&algorithm, "algorithm", "logistic-regression", "classification algorithm")
	cmd.Flags().IntVar(&k, "k", 0, "neighbor count for knn, 0 uses the server default")
	return cmd
}

func newAccuracyCmd() *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Report training-set accuracy for the entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := integration.NewClient(flagAddr)
			resp, err := client.Accuracy(cmd.Context(), integration.AccuracyRequest{
				EntityID:  flagEntity,
				Algorithm: algorithm,
			})
			if err != nil {
				return err
			}
			fmt.Printf("accuracy=%.4f datasetSize=%d\n", resp.Accuracy, resp.DatasetSize)
			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "logistic-regression", "classification algorithm")
	return cmd
}

// newSeedCmd generates a synthetic training set in which high age and income
// imply a positive label, useful for smoke-testing a fresh instance.
func newSeedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the entity with synthetic training samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rng fastrand.RNG
			samples := make([]integration.Sample, 0, count)
			for i := 0; i < count; i++ {
				age := 18 + float64(rng.Uint32n(50))
				income := 15000 + float64(rng.Uint32n(135000))
				label := 0
				if age >= 35 && income >= 60000 {
					label = 1
				}
				samples = append(samples, integration.Sample{
					Vec:       []float64{age, income},
					Label:     label,
					CreatedAt: time.Now(),
				})
			}
			client := integration.NewClient(flagAddr)
			resp, err := client.Collect(cmd.Context(), integration.CollectRequest{
				EntityID: flagEntity,
				Data:     samples,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			fmt.Printf("seeded %d samples: %s\n", count, resp.Status)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of samples to generate")
	return cmd
}
