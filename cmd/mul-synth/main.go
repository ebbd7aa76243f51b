// Command mul-synth renders Mul's sounds to WAV files for listening and
// tuning away from the companion.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mul/internal/audio"
)

var (
	outPath  string
	duration time.Duration
	rate     int
	pitch    float64
	seed     uint64
)

var rootCmd = &cobra.Command{
	Use:   "mul-synth <water|rain|night|chime|boop|hover|pour>",
	Short: "Render an ambient texture or a one-shot to a WAV file",
	Long: `Renders one of Mul's sounds through the same engine the companion uses
and writes it as 16-bit mono WAV.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <sound>.wav)")
	rootCmd.Flags().DurationVarP(&duration, "duration", "d", 10*time.Second, "length of the render")
	rootCmd.Flags().IntVar(&rate, "rate", audio.DefaultSampleRate, "sample rate in Hz")
	rootCmd.Flags().Float64Var(&pitch, "pitch", audio.DefaultChimePitch, "chime pitch in Hz")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "noise seed, for repeatable renders")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSynth(cmd *cobra.Command, args []string) error {
	sound := args[0]
	if duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	engine := audio.NewEngine(
		audio.WithSampleRate(rate),
		audio.WithRand(rand.New(rand.NewPCG(seed, seed))),
	)
	if err := play(engine, sound); err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = sound + ".wav"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := audio.WriteWAV(f, engine, duration); err != nil {
		return fmt.Errorf("render %s: %w", sound, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d Hz)\n", path, duration, rate)
	return nil
}

func play(engine *audio.Engine, sound string) error {
	switch sound {
	case "chime":
		engine.PlayChime(pitch)
	case "boop":
		engine.PlayBoop()
	case "hover":
		engine.PlayHover()
	case "pour":
		engine.PlayWaterPour()
	default:
		kind, err := audio.ParseKind(sound)
		if err != nil {
			return err
		}
		engine.PlayAmbient(kind)
	}
	return nil
}
