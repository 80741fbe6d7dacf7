package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/ticktock/internal/cli"
	"github.com/linuxmatters/ticktock/internal/config"
	"github.com/linuxmatters/ticktock/internal/logging"
	"github.com/linuxmatters/ticktock/internal/midilog"
	"github.com/linuxmatters/ticktock/internal/processor"
	"github.com/linuxmatters/ticktock/internal/ui"
)

var (
	version = "0.0.1"
)

// errReported is returned once the failure has already been shown
var errReported = errors.New("reported")

// CLI defines the command-line interface
type CLI struct {
	Version versionFlag `short:"v" help:"Show version information"`
	Wav     WavCmd      `cmd:"" help:"Measure the distances between clicks in a WAV recording"`
	Midi    MidiCmd     `cmd:"" help:"Measure the distances between clock messages in a MIDI-OX log"`
}

// versionFlag prints the styled version and exits before commands are
// resolved, so "ticktock -v" works without a command.
type versionFlag bool

func (v versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	cli.PrintVersion(vars["version"])
	app.Exit(0)
	return nil
}

// runEnv carries loaded settings into command Run methods
type runEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WavCmd analyses the onsets in an audio recording
type WavCmd struct {
	File       string `arg:"" name:"file" help:"WAV recording to analyse" type:"existingfile"`
	Threshold  int    `short:"t" default:"0" help:"Amplitude separating sound from silence, 0 estimates it"`
	Resolution int    `short:"r" default:"0" help:"Quiet samples needed to end a sound, 0 uses sample rate / 20"`
	Beats      int    `short:"b" default:"1" help:"Onsets per measured distance"`
	Logs       bool   `help:"Save a detailed timing report"`
	Plain      bool   `help:"Print results as plain text without the progress display"`
}

// Run executes the wav command
func (c *WavCmd) Run(env *runEnv) error {
	opts := config.Analysis{Threshold: c.Threshold, Resolution: c.Resolution, Beats: c.Beats}
	if err := opts.Validate(); err != nil {
		return err
	}

	env.logger.Info("analysing", "file", c.File, "threshold", c.Threshold, "resolution", c.Resolution, "beats", c.Beats)
	start := time.Now()

	var (
		result *processor.AnalysisResult
		err    error
	)
	if c.Plain {
		result, err = processor.AnalyzeFile(c.File, opts, env.logger, nil)
	} else {
		result, err = runInteractive(c.File, opts, env.logger)
	}
	end := time.Now()

	if result != nil && result.Metadata != nil && !result.Metadata.Mono() {
		cli.PrintWarning(fmt.Sprintf("%s has %d channels, only the first was analysed", c.File, result.Metadata.Channels))
	}

	data := logging.ReportData{
		InputPath: c.File,
		ReportDir: env.cfg.ReportDir,
		StartTime: start,
		EndTime:   end,
		Result:    result,
	}
	if c.Logs && result != nil {
		saveReport(env, data)
	}

	if err != nil {
		env.logger.Error("analysis failed", "file", c.File, "error", err)
		if errors.Is(err, errReported) {
			return err
		}
		return errors.New(processor.Describe(result, err))
	}

	if c.Plain {
		return logging.WriteReport(os.Stdout, data)
	}
	return nil
}

// runInteractive runs the pipeline in the background and drives the
// Bubbletea progress display from its callbacks.
func runInteractive(path string, opts config.Analysis, logger *slog.Logger) (*processor.AnalysisResult, error) {
	p := tea.NewProgram(ui.NewModel())

	go func() {
		p.Send(ui.AnalysisStartMsg{FilePath: path})
		result, err := processor.AnalyzeFile(path, opts, logger, func(stage processor.Stage, progress float64) {
			p.Send(ui.AnalysisProgressMsg{Stage: stage, Progress: progress})
		})
		p.Send(ui.AnalysisCompleteMsg{Result: result, Error: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("UI error: %w", err)
	}

	m := final.(ui.Model)
	if !m.Done {
		return nil, fmt.Errorf("analysis cancelled")
	}
	if m.Error != nil {
		// the completion view already shows the diagnostic
		return m.Result, fmt.Errorf("%w: %w", errReported, m.Error)
	}
	return m.Result, nil
}

// MidiCmd analyses MIDI clock timing from a MIDI-OX log
type MidiCmd struct {
	File string `arg:"" name:"file" help:"MIDI-OX log file" type:"existingfile"`
	Logs bool   `help:"Save a detailed timing report"`
}

// Run executes the midi command
func (c *MidiCmd) Run(env *runEnv) error {
	start := time.Now()

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	distances, err := midilog.Extract(f)
	if err != nil {
		return err
	}
	env.logger.Info("extracted clock distances", "file", c.File, "count", len(distances))

	summary, histogram, err := processor.StatsReporter{}.Report(distances)
	if err != nil {
		return err
	}

	data := logging.ReportData{
		InputPath: c.File,
		ReportDir: env.cfg.ReportDir,
		StartTime: start,
		EndTime:   time.Now(),
		Result: &processor.AnalysisResult{
			InputPath: c.File,
			Beats:     1,
			Distances: distances,
			Summary:   summary,
			Histogram: histogram,
		},
	}
	if c.Logs {
		saveReport(env, data)
	}
	return logging.WriteReport(os.Stdout, data)
}

func saveReport(env *runEnv, data logging.ReportData) {
	path, err := logging.GenerateReport(data)
	if err != nil {
		env.logger.Error("failed to generate report", "error", err)
		cli.PrintWarning(fmt.Sprintf("could not save report: %v", err))
		return
	}
	env.logger.Info("saved report", "path", path)
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("ticktock"),
		kong.Description("Measure timing jitter from recorded clicks and MIDI clock logs"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	cfg, err := config.Load()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	logger, closeLog, err := cfg.NewLogger()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	err = ctx.Run(&runEnv{cfg: cfg, logger: logger})
	closeLog()
	if err != nil {
		if !errors.Is(err, errReported) {
			cli.PrintError(err.Error())
		}
		os.Exit(1)
	}
}
