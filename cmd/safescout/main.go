package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"safescout/pkg/assessor"
	"safescout/pkg/config"
	"safescout/pkg/geocode"
	"safescout/pkg/llm/gemini"
	"safescout/pkg/locator"
	"safescout/pkg/logging"
	"safescout/pkg/model"
	"safescout/pkg/notify"
	"safescout/pkg/pipeline"
	"safescout/pkg/request"
	"safescout/pkg/tracker"
	"safescout/pkg/tts"
	"safescout/pkg/tts/edgetts"
	"safescout/pkg/tts/gtrans"
	"safescout/pkg/version"
)

var (
	lat        = flag.Float64("lat", 0, "Latitude of the traveler position (required)")
	lon        = flag.Float64("lon", 0, "Longitude of the traveler position (required)")
	imagePath  = flag.String("image", "", "Path to the photo of the scene")
	videoPath  = flag.String("video", "", "Path to an optional video clip to attach to the mail")
	recipient  = flag.String("to", "", "Report recipient (overrides config, defaults to the sender)")
	configPath = flag.String("config", "configs/safescout.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if !flagsSet("lat", "lon") {
		fmt.Fprintln(os.Stderr, "Both -lat and -lon are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func flagsSet(names ...string) bool {
	seen := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	for _, n := range names {
		if !seen[n] {
			return false
		}
	}
	return true
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Secrets may live in a .env next to the binary.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *recipient != "" {
		cfg.Mail.Recipient = *recipient
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()
	tts.SetLogPath(filepath.Join(filepath.Dir(cfg.Log.Server.Path), "tts.log"))

	slog.Info("SafeScout started", "version", version.Version, "lat", *lat, "lon", *lon)

	tr := tracker.New()
	defer logSnapshot(tr)

	httpClient := request.New(tr, time.Duration(cfg.Request.Timeout))

	llmClient, err := gemini.NewClient(cfg.LLM, cfg.Log.LLM.Path, tr)
	if err != nil {
		return fmt.Errorf("failed to initialize generation client: %w", err)
	}
	defer llmClient.Close()

	var geocoder geocode.Geocoder
	if g, err := geocode.NewGoogleGeocoder(cfg.Geocode.Key, tr); err != nil {
		slog.Warn("Geocoding unavailable, using generic area", "error", err)
	} else {
		geocoder = g
	}

	loc := locator.New(geocoder, llmClient)
	scene := assessor.New(llmClient, model.AssessmentVariant(cfg.Assessor.Variant))
	synth := tts.NewSynthesizer(ttsProvider(cfg, httpClient, tr))
	mailer := notify.NewMailer(cfg.Mail)
	sidecar := notify.NewSidecar(cfg.Sidecar.Path)

	pipe := pipeline.New(loc, scene, synth, mailer, sidecar, time.Duration(cfg.Request.Timeout))

	out := pipe.Run(ctx, pipeline.Input{
		Position:  model.NewCoordinates(*lat, *lon),
		ImagePath: *imagePath,
		VideoPath: *videoPath,
	})

	printOutcome(out)
	return nil
}

// ttsProvider selects the speech engine and its voice per the config.
func ttsProvider(cfg *config.Config, httpClient *request.Client, tr *tracker.Tracker) (tts.Provider, string, string) {
	switch cfg.TTS.Engine {
	case "edge-tts":
		return edgetts.NewProvider(cfg.TTS.EdgeTTS, tr), cfg.TTS.EdgeTTS.VoiceID, cfg.TTS.Output
	default:
		return gtrans.NewProvider(httpClient), cfg.TTS.Language, cfg.TTS.Output
	}
}

func printOutcome(out *pipeline.Outcome) {
	fmt.Println(out.Report)
	if out.Assessment.Variant == model.VariantKeywords {
		fmt.Printf("Keywords: %v\n", out.Assessment.Keywords)
	} else {
		fmt.Printf("Safe or Danger: %s\n", out.Assessment.Verdict)
	}
	if out.AudioPath != "" {
		fmt.Printf("Audio: %s\n", out.AudioPath)
	}
	if out.MailErr != nil {
		fmt.Printf("Mail delivery failed: %v\n", out.MailErr)
	}
	if out.SidecarErr != nil {
		fmt.Printf("Sidecar write failed: %v\n", out.SidecarErr)
	}
}

func logSnapshot(tr *tracker.Tracker) {
	for provider, stats := range tr.Snapshot() {
		slog.Info("API usage", "provider", provider, "success", stats.APISuccess, "failures", stats.APIFailures)
	}
}
