package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaz8081/meetpilot/internal/assistant"
	"github.com/chaz8081/meetpilot/internal/audio"
	"github.com/chaz8081/meetpilot/internal/config"
	"github.com/chaz8081/meetpilot/internal/pipeline"
	"github.com/chaz8081/meetpilot/internal/server"
	"github.com/chaz8081/meetpilot/internal/store"
	"github.com/chaz8081/meetpilot/internal/transcribe"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/meetpilot/config.yaml)")
	serve := flag.Bool("serve", false, "run the web server")
	record := flag.Bool("record", false, "record from the microphone in the terminal")
	duration := flag.Duration("duration", 0, "stop recording after this long (0 = until Ctrl+C)")
	transcribeFile := flag.String("transcribe", "", "transcribe a WAV file and print the text")
	summaryFile := flag.String("summary", "", "print a meeting summary for a transcript file")
	prepFile := flag.String("interview-prep", "", "print interview prep notes for a transcript file")
	qaFile := flag.String("extract-qa", "", "print question/answer pairs from a transcript file")
	showConfig := flag.Bool("show-config", false, "print the effective configuration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.LoadEnv(); err != nil {
		log.Fatalf("env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	if *showConfig {
		printBanner(cfg)
		return
	}

	switch {
	case *transcribeFile != "":
		err = runTranscribe(cfg, *transcribeFile)
	case *summaryFile != "":
		err = runAnalysis(cfg, *summaryFile, "summary")
	case *prepFile != "":
		err = runAnalysis(cfg, *prepFile, "interview-prep")
	case *qaFile != "":
		err = runAnalysis(cfg, *qaFile, "extract-qa")
	case *record:
		err = runRecord(cfg, *duration)
	case *serve:
		err = runServe(cfg)
	default:
		err = runServe(cfg)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runServe(cfg *config.Config) error {
	printBanner(cfg)

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %s, shutting down...", sig)
		if err := srv.Shutdown(); err != nil {
			log.Printf("ERROR: shutdown: %v", err)
		}
	}()

	return srv.Listen()
}

// runRecord drives the pipeline from the terminal without the web UI.
// Events are logged as they happen and the session is saved on stop.
func runRecord(cfg *config.Config, duration time.Duration) error {
	printBanner(cfg)

	transcriber, err := transcribe.New(&cfg.Transcribe, cfg.OpenAIAPIKey)
	if err != nil {
		return err
	}
	defer transcriber.Close()

	answerer, err := assistant.NewOpenAIAssistant(cfg.OpenAIAPIKey, cfg.Assistant.Model)
	if err != nil {
		return err
	}

	proc := pipeline.NewProcessor(transcriber, answerer, nil)
	chunker := audio.NewChunker(
		int(cfg.Audio.SampleRate),
		cfg.Chunking.ChunkSeconds,
		cfg.Chunking.OverlapSeconds,
		proc.Enqueue,
	)
	recorder, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels, chunker.Push)
	if err != nil {
		return fmt.Errorf("initializing audio recorder: %w", err)
	}
	defer recorder.Close()

	proc.Start()
	if err := recorder.Start(); err != nil {
		proc.Stop()
		return fmt.Errorf("starting recording: %w", err)
	}
	log.Println("Recording... Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if duration > 0 {
		select {
		case sig := <-sigCh:
			log.Printf("Received %s, stopping...", sig)
		case <-time.After(duration):
			log.Printf("Duration %s elapsed, stopping...", duration)
		}
	} else {
		sig := <-sigCh
		log.Printf("Received %s, stopping...", sig)
	}

	samples := recorder.Stop()
	chunker.Flush()
	proc.Stop()

	st := store.New(cfg.RecordingsDir, cfg.TranscriptsDir)
	recordingPath, err := st.SaveRecording(samples, int(cfg.Audio.SampleRate))
	if err != nil {
		log.Printf("ERROR: saving recording: %v", err)
	} else {
		log.Printf("Recording saved to %s", recordingPath)
	}

	transcript := proc.Transcript().Full()
	if transcript != "" {
		transcriptPath, err := st.SaveTranscript(transcript, recordingPath)
		if err != nil {
			log.Printf("ERROR: saving transcript: %v", err)
		} else {
			log.Printf("Transcript saved to %s", transcriptPath)
		}
		fmt.Println()
		fmt.Println(transcript)
	} else {
		log.Println("No speech detected")
	}

	stats := proc.Statistics()
	log.Printf("Session: %d chunks, %d questions detected", stats.ChunksProcessed, stats.QuestionsDetected)
	return nil
}

func runTranscribe(cfg *config.Config, path string) error {
	samples, sampleRate, err := audio.ReadWAVFile(path)
	if err != nil {
		return err
	}
	log.Printf("Loaded %.1fs of audio from %s", float64(len(samples))/float64(sampleRate), path)

	transcriber, err := transcribe.New(&cfg.Transcribe, cfg.OpenAIAPIKey)
	if err != nil {
		return err
	}
	defer transcriber.Close()

	start := time.Now()
	text, err := transcriber.Transcribe(context.Background(), samples, sampleRate)
	if err != nil {
		return err
	}
	log.Printf("Transcribed in %s", time.Since(start).Round(time.Millisecond))

	fmt.Println(text)
	return nil
}

// runAnalysis loads a saved transcript and runs one of the assistant's
// whole-transcript analyses over it.
func runAnalysis(cfg *config.Config, path, mode string) error {
	text, err := store.LoadTranscript(path)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("transcript %s is empty", path)
	}

	answerer, err := assistant.NewOpenAIAssistant(cfg.OpenAIAPIKey, cfg.Assistant.Model)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var out string
	switch mode {
	case "summary":
		out, err = answerer.Summarize(ctx, text)
	case "interview-prep":
		out, err = answerer.InterviewPrep(ctx, text)
	case "extract-qa":
		out, err = answerer.ExtractQA(ctx, text)
	default:
		return fmt.Errorf("unknown analysis mode %q", mode)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	log.Println("No config file found, using defaults")
	return config.Default(), nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	fmt.Println("=== meetpilot ===")
	fmt.Printf("  Audio:      %dHz, %dch\n", cfg.Audio.SampleRate, cfg.Audio.Channels)
	fmt.Printf("  Chunking:   %ds chunks, %ds overlap\n", cfg.Chunking.ChunkSeconds, cfg.Chunking.OverlapSeconds)
	fmt.Printf("  Transcribe: %s (%s)\n", cfg.Transcribe.Backend, cfg.Transcribe.Model)
	fmt.Printf("  Assistant:  %s\n", cfg.Assistant.Model)
	fmt.Printf("  Server:     %s\n", cfg.Server.Addr)
	fmt.Printf("  Log:        %s\n", cfg.LogLevel)
	fmt.Println("=================")
}
