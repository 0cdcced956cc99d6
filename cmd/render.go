package cmd

import (
	"github.com/leandrodaf/chordpattern/internal/render"
	"github.com/leandrodaf/chordpattern/sdk/processor"
	"github.com/spf13/cobra"
)

var renderSettings = render.DefaultSettings()

var renderCmd = &cobra.Command{
	Use:   "render <in.mid> <out.mid>",
	Short: "Renders a MIDI file offline",
	Long: `Reads every track of a Standard MIDI File, runs it through the processor in
fixed blocks and writes the generated notes to a single-track file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, opts, err := commonOptions()
		if err != nil {
			return err
		}
		proc, err := processor.NewProcessor(opts...)
		if err != nil {
			return err
		}
		defer proc.Close()

		res, err := render.File(proc, args[0], args[1], renderSettings)
		if err != nil {
			log.Error("Render failed", log.Field().Error("error", err))
			return err
		}
		log.Info("Render finished",
			log.Field().String("output", args[1]),
			log.Field().Int("blocks", res.Blocks),
			log.Field().Int("input_events", res.Input),
			log.Field().Int("output_events", res.Output))
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.Float64Var(&renderSettings.SampleRate, "sample-rate", renderSettings.SampleRate, "sample rate used to place events")
	f.IntVar(&renderSettings.BlockSize, "block-size", renderSettings.BlockSize, "samples per block")
	f.Float64Var(&renderSettings.BPM, "bpm", renderSettings.BPM, "tempo of the output file")
	rootCmd.AddCommand(renderCmd)
}
