package cmd

import (
	"fmt"

	"github.com/leandrodaf/chordpattern/sdk/midi"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts, err := commonOptions()
		if err != nil {
			return err
		}
		client, err := midi.NewMIDIClient(opts...)
		if err != nil {
			return err
		}
		defer client.Stop()

		devices, err := client.ListDevices()
		if err != nil {
			return err
		}
		for i, d := range devices {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", i, d.Name, d.EntityName, d.Manufacturer)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
