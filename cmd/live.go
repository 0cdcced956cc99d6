package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leandrodaf/chordpattern/internal/api"
	"github.com/leandrodaf/chordpattern/internal/live"
	"github.com/leandrodaf/chordpattern/internal/live/paclock"
	"github.com/leandrodaf/chordpattern/internal/smfio"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/leandrodaf/chordpattern/sdk/midi"
	"github.com/leandrodaf/chordpattern/sdk/processor"
	"github.com/spf13/cobra"
)

var liveFlags struct {
	device     int
	sampleRate float64
	blockSize  int
	bpm        float64
	clock      string
	record     string
	listen     string
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Processes a MIDI input device in real time",
	Long: `Captures a MIDI input device, runs it through the processor block by block
and logs the generated notes. Ctrl+C stops the transport, releasing held notes,
and exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, opts, err := commonOptions()
		if err != nil {
			return err
		}

		clock, err := newClock()
		if err != nil {
			return err
		}

		client, err := midi.NewMIDIClient(append(opts, contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff, contracts.ControlChange},
		}))...)
		if err != nil {
			return err
		}
		defer client.Stop()
		if err := client.SelectDevice(liveFlags.device); err != nil {
			return err
		}

		proc, err := processor.NewProcessor(opts...)
		if err != nil {
			return err
		}
		defer proc.Close()

		sinks := []live.Sink{live.NewLogSink(log)}
		var rec *smfio.Recorder
		if liveFlags.record != "" {
			rec = smfio.NewRecorder()
			sinks = append(sinks, rec)
		}

		engine := live.NewEngine(proc, clock, log, live.Settings{BPM: liveFlags.bpm, Sinks: sinks})
		client.StartCapture(engine.Input())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if liveFlags.listen != "" {
			srv := &http.Server{Addr: liveFlags.listen, Handler: api.NewHandler(engine, log)}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Control API stopped", log.Field().Error("error", err))
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			log.Info("Control API listening", log.Field().String("addr", liveFlags.listen))
		}

		if err := engine.Run(ctx); err != nil {
			return err
		}

		if rec != nil {
			bpm := liveFlags.bpm
			if bpm <= 0 {
				bpm = 120
			}
			if err := rec.WriteFile(liveFlags.record, clock.SampleRate(), bpm); err != nil {
				return fmt.Errorf("write recording: %w", err)
			}
			log.Info("Recording written",
				log.Field().String("path", liveFlags.record),
				log.Field().Int("events", rec.Len()))
		}
		return nil
	},
}

func newClock() (live.Clock, error) {
	switch liveFlags.clock {
	case "ticker":
		return live.NewTickerClock(liveFlags.sampleRate, liveFlags.blockSize), nil
	case "portaudio":
		return paclock.New(liveFlags.sampleRate, liveFlags.blockSize), nil
	}
	return nil, fmt.Errorf("unknown clock %q: use ticker or portaudio", liveFlags.clock)
}

func init() {
	f := liveCmd.Flags()
	f.IntVar(&liveFlags.device, "device", 0, "input device index, see the devices command")
	f.Float64Var(&liveFlags.sampleRate, "sample-rate", 48000, "sample rate of the block clock")
	f.IntVar(&liveFlags.blockSize, "block-size", 256, "samples per block")
	f.Float64Var(&liveFlags.bpm, "bpm", 120, "tempo reported to the processor")
	f.StringVar(&liveFlags.clock, "clock", "ticker", "block clock: ticker or portaudio")
	f.StringVar(&liveFlags.record, "record", "", "write the generated notes to this MIDI file on exit")
	f.StringVar(&liveFlags.listen, "listen", "", "serve the control API on this address, e.g. :8080")
	rootCmd.AddCommand(liveCmd)
}
