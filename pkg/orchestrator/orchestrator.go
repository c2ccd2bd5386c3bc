// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath string

	// Report
	ReportPath string

	// Backend name for the report (set by the CLI after decoder selection)
	Backend string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{}
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Format       pipeline.InputFormat
	FileSize     int64
	NALUnitCount int
	Pictures     int
	Failed       int
	Width        int
	Height       int
	ElapsedMs    int
}

// Decoded reports whether at least one picture came out of the decoder.
func (r RunResult) Decoded() bool {
	return r.Pictures > 0
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	probeStage  pipeline.Stage[pipeline.ProbeInput, pipeline.ProbeResult]
	splitStage  pipeline.Stage[pipeline.SplitInput, pipeline.SplitResult]
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	reportStage pipeline.Stage[pipeline.ReportInput, pipeline.ReportResult]
	fs          ports.FileSystem
	sink        ports.PictureSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	probeStage pipeline.Stage[pipeline.ProbeInput, pipeline.ProbeResult],
	splitStage pipeline.Stage[pipeline.SplitInput, pipeline.SplitResult],
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	reportStage pipeline.Stage[pipeline.ReportInput, pipeline.ReportResult],
	fs ports.FileSystem,
	sink ports.PictureSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		probeStage:  probeStage,
		splitStage:  splitStage,
		decodeStage: decodeStage,
		reportStage: reportStage,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	started := time.Now()
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Probe input
	o.logger.Info(l10n.F("Probing %s", config.InputPath))
	probe, err := o.probeStage.Execute(ctx, pipeline.ProbeInput{Path: config.InputPath})
	if err != nil {
		o.logger.Error(l10n.F("Failed to probe input: %s", err))
		return RunResult{}, fmt.Errorf("probe stage: %w", err)
	}
	o.logger.Info(l10n.F("Detected %s input (%d bytes)", probe.Format, probe.FileSize))

	if o.sink.Enabled() {
		probeInfo := struct {
			Path     string `json:"path"`
			Format   string `json:"format"`
			FileSize int64  `json:"file_size"`
		}{config.InputPath, string(probe.Format), probe.FileSize}
		if data, err := json.MarshalIndent(probeInfo, "", "  "); err == nil {
			o.sink.SaveProbeJSON(data)
		}
	}

	// 2. Split into NAL units
	o.logger.Info(l10n.T("Splitting stream into NAL units"))
	split, err := o.splitStage.Execute(ctx, pipeline.SplitInput{
		Format: probe.Format,
		Data:   probe.Data,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to split stream: %s", err))
		return RunResult{}, fmt.Errorf("split stage: %w", err)
	}
	o.logger.Info(l10n.F("Found %d NAL units", len(split.NALUnits)))

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(split.Listing, "", "  "); err == nil {
			o.sink.SaveNALUnitsJSON(data)
		}
	}

	// 3. Decode
	decode, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{
		NALUnits: split.NALUnits,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to initialize decoder: %s", err))
		return RunResult{}, fmt.Errorf("decode stage: %w", err)
	}

	if o.sink.Enabled() {
		for _, pic := range decode.Pictures {
			o.logger.Debug("Saving picture %d", pic.Index)
			if err := o.sink.SavePicture(pic); err != nil {
				o.logger.Error(l10n.F("Failed to write output: %s", err))
				return RunResult{}, fmt.Errorf("save picture %d: %w", pic.Index, err)
			}
		}
	}

	elapsed := time.Since(started)

	// 4. Report
	report, err := o.reportStage.Execute(ctx, pipeline.ReportInput{
		Source:   config.InputPath,
		FileSize: probe.FileSize,
		Format:   probe.Format,
		Backend:  config.Backend,
		Listing:  split.Listing,
		Decode:   decode,
		Elapsed:  elapsed,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("report stage: %w", err)
	}

	if o.sink.Enabled() {
		if err := o.sink.SaveReport(report.Markdown); err != nil {
			return RunResult{}, fmt.Errorf("save report: %w", err)
		}
	}
	if config.ReportPath != "" {
		if err := o.fs.WriteFile(config.ReportPath, report.Markdown); err != nil {
			o.logger.Error(l10n.F("Failed to write output: %s", err))
			return RunResult{}, fmt.Errorf("write report: %w", err)
		}
		o.logger.Info(l10n.F("Report saved to %s", config.ReportPath))
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))

	return RunResult{
		Format:       probe.Format,
		FileSize:     probe.FileSize,
		NALUnitCount: len(split.NALUnits),
		Pictures:     len(decode.Pictures),
		Failed:       decode.Failed,
		Width:        decode.Width,
		Height:       decode.Height,
		ElapsedMs:    int(elapsed.Milliseconds()),
	}, nil
}
