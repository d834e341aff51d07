package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/regiontrack/internal/app"
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <series.yaml>",
		Short: "Build a tracking graph for a labeled frame series",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return domain.ErrNoSeriesSpecified
			}

			rawFormat, _ := cmd.Flags().GetString("format")
			format, err := app.ParseFormat(rawFormat)
			if err != nil {
				return err
			}

			overrides, err := settingsFromFlags(cmd)
			if err != nil {
				return err
			}

			res, err := c.app.Track(cmd.Context(), args[0], overrides)
			if err != nil {
				return err
			}

			return app.WriteReport(cmd.OutOrStdout(), res.Summary, format)
		},
	}
	cmd.Flags().Int("min-area", 0, "Drop regions smaller than this many pixels")
	cmd.Flags().Int("min-overlap", 0, "Shared pixels required to link regions in consecutive frames")
	cmd.Flags().Int64("cache-budget", 0, "Byte budget of the frame analysis cache (negative disables caching)")
	cmd.Flags().Float64("cleanup-factor", 0, "Fraction of the cache budget kept after eviction")
	cmd.Flags().IntP("parallelism", "j", 0, "Number of frames analyzed concurrently")
	cmd.Flags().StringP("format", "o", string(app.FormatText), "Report format (text, yaml)")
	return cmd
}

// settingsFromFlags returns the settings explicitly set on the command line.
func settingsFromFlags(cmd *cobra.Command) (domain.TrackSettings, error) {
	var s domain.TrackSettings
	flags := cmd.Flags()

	s.MinArea, _ = flags.GetInt("min-area")
	s.MinOverlap, _ = flags.GetInt("min-overlap")
	s.CacheBudget, _ = flags.GetInt64("cache-budget")
	s.CleanupFactor, _ = flags.GetFloat64("cleanup-factor")
	s.Parallelism, _ = flags.GetInt("parallelism")

	if s.MinArea < 0 {
		return s, zerr.With(zerr.Wrap(domain.ErrInvalidSetting, "min-area must not be negative"), "min_area", s.MinArea)
	}
	if s.MinOverlap < 0 {
		return s, zerr.With(zerr.Wrap(domain.ErrInvalidSetting, "min-overlap must not be negative"), "min_overlap", s.MinOverlap)
	}
	if flags.Changed("cleanup-factor") && (s.CleanupFactor <= 0 || s.CleanupFactor > 1) {
		return s, zerr.With(zerr.Wrap(domain.ErrInvalidCleanupFactor, "cleanup-factor must be in (0, 1]"), "cleanup_factor", s.CleanupFactor)
	}
	return s, nil
}
