// Package main provides the CLI entry point for nalshow.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/nalshow/pkg/adapters/filesink"
	"github.com/user/nalshow/pkg/adapters/ggrenderer"
	"github.com/user/nalshow/pkg/adapters/h264dec"
	"github.com/user/nalshow/pkg/adapters/logger"
	"github.com/user/nalshow/pkg/adapters/nullsink"
	"github.com/user/nalshow/pkg/adapters/osfilesystem"
	"github.com/user/nalshow/pkg/config"
	"github.com/user/nalshow/pkg/discovery"
	"github.com/user/nalshow/pkg/h264"
	"github.com/user/nalshow/pkg/orchestrator"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
	"github.com/user/nalshow/pkg/scp"
	"github.com/user/nalshow/pkg/stages/decode"
	"github.com/user/nalshow/pkg/stages/probe"
	"github.com/user/nalshow/pkg/stages/report"
	"github.com/user/nalshow/pkg/stages/split"
	"github.com/user/nalshow/pkg/stream"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Decode   DecodeCmd   `cmd:"" help:"Decode an H.264 file and report the pictures found."`
	Inspect  InspectCmd  `cmd:"" help:"List the NAL units of an H.264 file without decoding."`
	Dump     DumpCmd     `cmd:"" help:"Decode an H.264 file and save every picture as PNG."`
	Send     SendCmd     `cmd:"" help:"Stream an H.264 file to a receiver over UDP."`
	Receive  ReceiveCmd  `cmd:"" help:"Receive an H.264 stream over UDP and decode it."`
	Discover DiscoverCmd `cmd:"" help:"Browse the local network for stream peers."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// logOptions are the logging flags shared by all subcommands.
type logOptions struct {
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

func (o logOptions) build() ports.Logger {
	if o.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(o.LogLevel))
}

// applyConfig fills the log level from the configuration file unless the
// flag was set explicitly.
func (o *logOptions) applyConfig(cfg config.Config) {
	if o.LogLevel == "info" && cfg.LogLevel != "" {
		o.LogLevel = cfg.LogLevel
	}
}

// decodeOptions are the decoder backend flags shared by decoding commands.
type decodeOptions struct {
	Backend    string `short:"b" default:"auto" enum:"auto,openh264,ffmpeg" help:"Decoder backend."`
	FFmpegPath string `help:"Path to the ffmpeg binary (falls back to PATH, then common locations)."`
}

func (o decodeOptions) newDecoder() *h264dec.Decoder {
	return h264dec.New(h264dec.Options{
		Backend:    h264dec.Backend(o.Backend),
		FFmpegPath: o.FFmpegPath,
	})
}

// applyConfig fills unset decoder flags from the configuration file.
func (o *decodeOptions) applyConfig(cfg config.Config) {
	if o.Backend == "auto" && cfg.Backend != "" {
		o.Backend = cfg.Backend
	}
	if o.FFmpegPath == "" {
		o.FFmpegPath = cfg.FFmpegPath
	}
}

// DecodeCmd defines the decode subcommand.
type DecodeCmd struct {
	Input string `arg:"" help:"Input file (raw Annex B stream or MP4)."`

	Config  string `short:"c" help:"YAML configuration file."`
	Summary string `short:"s" help:"Write a Markdown decode report to this path."`

	decodeOptions

	Debug    bool   `short:"d" help:"Save probe data, NAL listing and pictures for inspection."`
	DebugDir string `default:"./debug" help:"Directory for debug output."`

	logOptions
}

// InspectCmd defines the inspect subcommand.
type InspectCmd struct {
	Input string `arg:"" help:"Input file (raw Annex B stream or MP4)."`

	logOptions
}

// DumpCmd defines the dump subcommand.
type DumpCmd struct {
	Input  string `arg:"" help:"Input file (raw Annex B stream or MP4)."`
	Out    string `short:"o" default:"./nalshow-out" help:"Output directory for pictures."`
	Config string `short:"c" help:"YAML configuration file."`

	NoAnnotate bool   `help:"Do not stamp picture index and NAL range onto the pictures."`
	Scale      string `help:"Resize pictures to WxH (e.g. 640x480)."`
	Summary    string `short:"s" help:"Write a Markdown decode report to this path."`

	decodeOptions
	logOptions
}

// SendCmd defines the send subcommand.
type SendCmd struct {
	Input string `arg:"" help:"Input file (raw Annex B stream or MP4)."`
	Addr  string `arg:"" help:"Receiver address (host:port)."`

	Config  string  `short:"c" help:"YAML configuration file."`
	FPS     float64 `help:"Frames per second to pace the stream at (default: stream.interval_ms)."`
	Control string  `help:"Negotiate the session on this control address (host:port) first."`

	logOptions
}

// ReceiveCmd defines the receive subcommand.
type ReceiveCmd struct {
	Port int `arg:"" optional:"" help:"UDP port to listen on (default: stream.port)."`

	Config   string `short:"c" help:"YAML configuration file."`
	Out      string `short:"o" help:"Save decoded pictures to this directory."`
	Announce bool   `help:"Announce this receiver over mDNS."`
	Instance string `help:"mDNS instance name (default: discovery.instance, then hostname)."`
	Control  int    `help:"Answer session control messages on this TCP port."`

	decodeOptions
	logOptions
}

// DiscoverCmd defines the discover subcommand.
type DiscoverCmd struct {
	Config    string `short:"c" help:"YAML configuration file."`
	TimeoutMs int    `help:"How long to browse, in milliseconds (default: discovery.timeout_ms)."`

	logOptions
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("nalshow"),
		kong.Description("Inspect, decode and stream H.264 elementary streams."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// signalContext returns a context canceled by SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	return ctx, cancel
}

// loadConfig loads the YAML configuration or the defaults.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(path)
}

// runPipeline wires the stages and runs the probe/split/decode/report
// sequence against the given sink.
func runPipeline(ctx context.Context, log ports.Logger, opts decodeOptions,
	orchCfg orchestrator.Config, sink ports.PictureSink) (orchestrator.RunResult, error) {

	fs := osfilesystem.New()

	decoder := opts.newDecoder()
	log.Info(l10n.F("Initializing decoder (%s backend)", opts.Backend))
	if err := decoder.Init(); err != nil {
		log.Error(l10n.F("Failed to initialize decoder: %s", err))
		return orchestrator.RunResult{}, err
	}

	orch := orchestrator.New(
		probe.NewStage(fs),
		split.NewStage(log),
		decode.NewStage(decoder, log),
		report.NewStage(version),
		fs,
		sink,
		log,
	)

	// Report the backend that actually decodes, not the "auto" selector.
	orchCfg.Backend = string(decoder.Backend())
	return orch.Run(ctx, orchCfg)
}

// Run executes the decode command.
func (cmd *DecodeCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.applyConfig(cfg)
	log := cmd.build()

	ctx, cancel := signalContext(log)
	defer cancel()

	var sink ports.PictureSink
	if cmd.Debug {
		fs := osfilesystem.New()
		if err := fs.MkdirAll(cmd.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cmd.DebugDir, fs, ggrenderer.New(), filesink.Options{Annotate: true})
	} else {
		sink = nullsink.New()
	}

	result, err := runPipeline(ctx, log, cmd.decodeOptions, cfg.ToOrchestratorConfig(cmd.Input, cmd.Summary), sink)
	if err != nil {
		return err
	}

	if !result.Decoded() {
		return errors.New(l10n.T("No picture could be decoded from the stream"))
	}
	return nil
}

// applyConfig fills unset decode flags from the configuration file.
func (cmd *DecodeCmd) applyConfig(cfg config.Config) {
	cmd.decodeOptions.applyConfig(cfg)
	cmd.logOptions.applyConfig(cfg)
	if !cmd.Debug {
		cmd.Debug = cfg.Debug
	}
	if cmd.DebugDir == "./debug" && cfg.DebugDir != "" {
		cmd.DebugDir = cfg.DebugDir
	}
}

// Run executes the inspect command.
func (cmd *InspectCmd) Run() error {
	log := cmd.build()

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	probed, err := probe.NewStage(fs).Execute(ctx, pipelineProbeInput(cmd.Input))
	if err != nil {
		log.Error(l10n.F("Failed to probe input: %s", err))
		return err
	}
	log.Info(l10n.F("Detected %s input (%d bytes)", probed.Format, probed.FileSize))

	splitted, err := split.NewStage(log).Execute(ctx, pipelineSplitInput(probed))
	if err != nil {
		log.Error(l10n.F("Failed to split stream: %s", err))
		return err
	}

	fmt.Printf("%-6s %-30s %-8s %s\n", "INDEX", "TYPE", "REF_IDC", "SIZE")
	for _, info := range splitted.Listing {
		fmt.Printf("%-6d %-30s %-8d %d\n", info.Index, info.Type, info.RefIdc, info.Size)
	}
	log.Info(l10n.F("Found %d NAL units", len(splitted.NALUnits)))
	return nil
}

// Run executes the dump command.
func (cmd *DumpCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.applyConfig(cfg)
	log := cmd.build()

	scaleW, scaleH := cfg.ScaleWidth, cfg.ScaleHeight
	if cmd.Scale != "" {
		scaleW, scaleH, err = parseScale(cmd.Scale)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	if err := fs.MkdirAll(cmd.Out); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sink := filesink.New(cmd.Out, fs, ggrenderer.New(), filesink.Options{
		Annotate:    cfg.Annotate && !cmd.NoAnnotate,
		ScaleWidth:  scaleW,
		ScaleHeight: scaleH,
	})

	result, err := runPipeline(ctx, log, cmd.decodeOptions, cfg.ToOrchestratorConfig(cmd.Input, cmd.Summary), sink)
	if err != nil {
		return err
	}

	log.Info(l10n.F("Saved %d pictures to %s", result.Pictures, cmd.Out))
	return nil
}

// applyConfig fills unset dump flags from the configuration file.
func (cmd *DumpCmd) applyConfig(cfg config.Config) {
	cmd.decodeOptions.applyConfig(cfg)
	cmd.logOptions.applyConfig(cfg)
	if cmd.Out == "./nalshow-out" && cfg.OutDir != "" {
		cmd.Out = cfg.OutDir
	}
}

// Run executes the send command.
func (cmd *SendCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.logOptions.applyConfig(cfg)
	log := cmd.build()

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	probed, err := probe.NewStage(fs).Execute(ctx, pipelineProbeInput(cmd.Input))
	if err != nil {
		log.Error(l10n.F("Failed to probe input: %s", err))
		return err
	}

	splitted, err := split.NewStage(log).Execute(ctx, pipelineSplitInput(probed))
	if err != nil {
		log.Error(l10n.F("Failed to split stream: %s", err))
		return err
	}

	if cmd.Control != "" {
		reply, err := scp.Send(cmd.Control, scp.Message{Command: scp.CommandVideoStreamConnect}, true)
		if err != nil {
			return fmt.Errorf("negotiate session: %w", err)
		}
		if reply.Command != scp.CommandVideoStreamConnect {
			return fmt.Errorf("receiver refused the session (%s)", reply.Command)
		}
		defer scp.Send(cmd.Control, scp.Message{Command: scp.CommandVideoStreamStop}, false)
	}

	interval := time.Duration(cfg.Stream.IntervalMs) * time.Millisecond
	if cmd.FPS > 0 {
		interval = time.Duration(float64(time.Second) / cmd.FPS)
	}

	sender, err := stream.Dial(cmd.Addr, interval, log)
	if err != nil {
		return err
	}
	defer sender.Close()

	log.Info(l10n.F("Sending %d NAL units to %s", len(splitted.NALUnits), cmd.Addr))
	if err := sender.SendStream(ctx, splitted.NALUnits); err != nil {
		return err
	}
	log.Info(l10n.T("Stream finished"))
	return nil
}

// Run executes the receive command.
func (cmd *ReceiveCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.applyConfig(cfg)
	log := cmd.build()

	ctx, cancel := signalContext(log)
	defer cancel()

	receiver, err := stream.Listen(cmd.Port, log)
	if err != nil {
		return err
	}
	defer receiver.Close()
	log.Info(l10n.F("Listening on port %d", receiver.LocalPort()))

	if cmd.Announce {
		announcer, err := discovery.Announce(cmd.Instance, receiver.LocalPort(), false, log)
		if err != nil {
			return err
		}
		defer announcer.Shutdown()
	}

	if cmd.Control > 0 {
		server, err := scp.NewServer(cmd.Control, controlHandler(log), log)
		if err != nil {
			return err
		}
		defer server.Close()
		go server.Serve(ctx)
	}

	var sink ports.PictureSink
	if cmd.Out != "" {
		fs := osfilesystem.New()
		if err := fs.MkdirAll(cmd.Out); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		sink = filesink.New(cmd.Out, fs, ggrenderer.New(), filesink.Options{Annotate: true})
	} else {
		sink = nullsink.New()
	}

	decoder := cmd.newDecoder()
	log.Info(l10n.F("Initializing decoder (%s backend)", cmd.Backend))
	if err := decoder.Init(); err != nil {
		log.Error(l10n.F("Failed to initialize decoder: %s", err))
		return err
	}
	defer decoder.Close()

	// Each reassembled frame carries one NAL unit without its start code.
	// Accumulate them into Annex B access units before each submission,
	// the same way the decode stage does for file input.
	var au h264.AccessUnitBuilder
	pictures, failed := 0, 0
	for {
		frame, err := receiver.NextFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		unit, ready := au.Add(frame)
		if !ready {
			continue
		}

		img, err := decoder.DecodeFrame(unit)
		if err != nil {
			log.Warn(l10n.F("Decoder rejected access unit %d: %s", pictures+failed, err))
			failed++
			au.Reset()
			continue
		}
		if img == nil {
			continue
		}
		au.Reset()

		pic := ports.Picture{Image: img, Index: pictures}
		log.Info(l10n.F("Picture decoded. Width: %d, Height: %d", pic.Width(), pic.Height()))
		if sink.Enabled() {
			if err := sink.SavePicture(pic); err != nil {
				log.Error(l10n.F("Failed to write output: %s", err))
				return err
			}
		}
		pictures++
	}

	log.Info(l10n.F("Decoded %d pictures (%d failed)", pictures, failed))
	return nil
}

// applyConfig fills unset receive flags from the configuration file.
func (cmd *ReceiveCmd) applyConfig(cfg config.Config) {
	cmd.decodeOptions.applyConfig(cfg)
	cmd.logOptions.applyConfig(cfg)
	if cmd.Port == 0 {
		cmd.Port = cfg.Stream.Port
	}
	if cmd.Instance == "" {
		cmd.Instance = cfg.Discovery.Instance
	}
}

// controlHandler answers video session requests; audio is not supported.
func controlHandler(log ports.Logger) scp.Handler {
	return func(msg scp.Message) *scp.Message {
		switch msg.Command {
		case scp.CommandStart:
			return &scp.Message{Command: scp.CommandStart}
		case scp.CommandVideoStreamConnect, scp.CommandVideoStreamStop:
			return &scp.Message{Command: msg.Command}
		case scp.CommandEnd:
			return &scp.Message{Command: scp.CommandEnd}
		default:
			log.Debug("Ignoring control message %s", msg.Command)
			return nil
		}
	}
}

// Run executes the discover command.
func (cmd *DiscoverCmd) Run() error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmd.logOptions.applyConfig(cfg)
	if cmd.TimeoutMs == 0 {
		cmd.TimeoutMs = cfg.Discovery.TimeoutMs
	}
	log := cmd.build()

	ctx, cancel := signalContext(log)
	defer cancel()

	peers, err := discovery.Browse(ctx, time.Duration(cmd.TimeoutMs)*time.Millisecond, log)
	if err != nil {
		return err
	}

	if len(peers) == 0 {
		fmt.Println(l10n.T("No peers found."))
		return nil
	}
	for _, peer := range peers {
		fmt.Println(peer)
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("nalshow version %s", version))
	return nil
}

func pipelineProbeInput(path string) pipeline.ProbeInput {
	return pipeline.ProbeInput{Path: path}
}

func pipelineSplitInput(probed pipeline.ProbeResult) pipeline.SplitInput {
	return pipeline.SplitInput{Format: probed.Format, Data: probed.Data}
}

// parseScale parses a WxH string.
func parseScale(s string) (width, height int, err error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid scale %q, expected WxH", s)
	}
	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid scale width %q", parts[0])
	}
	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid scale height %q", parts[1])
	}
	return width, height, nil
}
