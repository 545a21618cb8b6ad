package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRankCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank flights by comprehensive cascading impact",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.RankCascadingImpact(records, topN)
			if err != nil {
				return err
			}
			logger.Info("ranking complete",
				zap.Int("flights", len(res.Ranking)),
				zap.String("run_id", res.Diagnostics.RunID))
			return writeJSON(res)
		},
	}
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of flights to report (0 uses the configured default)")
	return cmd
}

func newOptimalCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Rank scheduling hours by historical delay",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.FindOptimalTimes(records, filter)
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "airport code or route substring (empty means all flights)")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Identify peak and quiet congestion windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.IdentifyBusySlots(records, filter)
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "airport code or route substring (empty means all flights)")
	return cmd
}

func newCapacityCmd() *cobra.Command {
	var filter string
	var maxPerHour int
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Report hourly utilization against capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.AnalyzeCapacity(records, filter, maxPerHour)
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "airport code or route substring (empty means all flights)")
	cmd.Flags().IntVar(&maxPerHour, "max-per-hour", 0, "hourly capacity (0 uses the configured default)")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var flight string
	var hour, minute int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Grid-search schedule shifts for one flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.SimulateScheduleShift(records, flight, hour, minute)
			if err != nil {
				return err
			}
			logger.Info("simulation complete",
				zap.String("flight", flight),
				zap.Float64("best_improvement_min", res.Simulation.Best.DelayImprovement))
			return writeJSON(res)
		},
	}
	cmd.Flags().StringVar(&flight, "flight", "", "flight number to simulate")
	cmd.Flags().IntVar(&hour, "hour", 8, "baseline departure hour (0-23)")
	cmd.Flags().IntVar(&minute, "minute", 0, "baseline departure minute (0-59)")
	_ = cmd.MarkFlagRequired("flight")
	return cmd
}

func newClustersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clusters",
		Short: "Group records into delay-behavior archetypes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.AnalyzeDelayClusters(records)
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
}

func newCascadesCmd() *cobra.Command {
	var minImpact float64
	cmd := &cobra.Command{
		Use:   "cascades",
		Short: "List high-impact cascading flight pairs per route",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, records, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			res, err := svc.AnalyzeCascades(records, minImpact)
			if err != nil {
				return err
			}
			return writeJSON(res)
		},
	}
	cmd.Flags().Float64Var(&minImpact, "min-impact", 5, "minimum cascade impact to report")
	return cmd
}
