package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/observability"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/study"
)

// roomFlags holds the room measurements shared by recommend, report and explore.
type roomFlags struct {
	distance float64 // viewing distance in meters
	eye      float64 // eye height in meters
	ceiling  float64 // ceiling height in meters
}

func (f *roomFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.distance, "distance", "d", 0, "viewing distance in meters (required)")
	cmd.Flags().Float64Var(&f.eye, "eye-height", 1.2, "seated eye height in meters")
	cmd.Flags().Float64Var(&f.ceiling, "ceiling-height", study.DefaultCeilingHeightM, "ceiling height in meters")
}

func (f *roomFlags) validate() error {
	return errors.ValidateRoomProfile(f.distance, f.eye, f.ceiling)
}

// recommendCommand creates the recommend command.
func (c *CLI) recommendCommand() *cobra.Command {
	var (
		room   roomFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend TV sizes for a viewing distance",
		Long: `Recommend the minimum TV size for each viewing regime.

The regimes are 4H (detail viewing), 6H (presentations) and 8H (video
content): the viewing distance is at most N times the screen height. When no
catalog size is large enough the largest one is reported as out of range.`,
		Example: `  visionspec recommend --distance 3.2
  visionspec recommend -d 4 --eye-height 1.7 --ceiling-height 2.6 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := room.validate(); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			engine, err := c.newEngine(cfg)
			if err != nil {
				return err
			}

			recs := engine.ComputeRecommendations(room.distance, room.eye, room.ceiling)
			observability.Report().OnRecommend(cmd.Context(), room.distance, sizes(recs))
			if asJSON {
				return writeRecommendationsJSON(os.Stdout, room, recs)
			}
			printRecommendations(room, recs)
			return nil
		},
	}

	room.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print recommendations as JSON")

	return cmd
}

// recommendationsDoc is the --json output of the recommend command.
type recommendationsDoc struct {
	DistanceM       float64                    `json:"distance_m"`
	EyeHeightM      float64                    `json:"eye_height_m"`
	CeilingHeightM  float64                    `json:"ceiling_height_m"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func writeRecommendationsJSON(w io.Writer, room roomFlags, recs []recommend.Recommendation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recommendationsDoc{
		DistanceM:       room.distance,
		EyeHeightM:      room.eye,
		CeilingHeightM:  room.ceiling,
		Recommendations: recs,
	})
}

func printRecommendations(room roomFlags, recs []recommend.Recommendation) {
	printKeyValue("Distance", fmt.Sprintf("%.2f m", room.distance))
	printKeyValue("Eye height", fmt.Sprintf("%.2f m", room.eye))
	printKeyValue("Ceiling", fmt.Sprintf("%.2f m", room.ceiling))
	printNewline()
	fmt.Println(recommendationTable(recs))

	for _, r := range recs {
		if !r.WithinSpec {
			printWarning("%s: distance exceeds the largest catalog size (%d\")", r.Regime, r.SizeInches)
		}
	}
	printNewline()
	printNextStep("Generate a report", fmt.Sprintf("%s report --distance %.2f -f pdf", appName, room.distance))
}

func sizes(recs []recommend.Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.SizeInches
	}
	return out
}
