package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personabot/pkg/artifact"
	"personabot/pkg/cache"
	"personabot/pkg/config"
	"personabot/pkg/gemini"
	"personabot/pkg/media"
	"personabot/pkg/nvidia"
	"personabot/pkg/persona"
	"personabot/pkg/pipeline"
	"personabot/pkg/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	personasFile string
	addr         string
)

var rootCmd = &cobra.Command{
	Use:   "personabot",
	Short: "Image personality bot API",
	Long: `personabot serves an HTTP API that describes an uploaded image with a
vision model, summarizes the description and answers in the voice of a
selected persona.

Running without a subcommand starts the server.`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "List the available personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		personas, err := loadPersonas(cfg)
		if err != nil {
			return err
		}
		for _, id := range personas.IDs() {
			marker := ""
			if id == personas.DefaultID() {
				marker = " (default)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", id, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&personasFile, "personas", "", "YAML persona file layered over the built-in personas")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPersonas(cfg *config.Config) (*persona.Registry, error) {
	path := cfg.Personas.File
	if personasFile != "" {
		path = personasFile
	}
	personas, err := persona.LoadFile(path, cfg.Personas.DefaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas: %w", err)
	}
	return personas, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	personas, err := loadPersonas(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %d personas (default: %s)", personas.Len(), personas.DefaultID())

	generator := newGenerator(cfg)

	artifacts, closeArtifacts := newArtifactStore(cfg)
	defer closeArtifacts()

	images := media.NewImageProcessor(media.CompressionOptions{
		Quality:      media.DefaultCompressionOptions().Quality,
		MaxDimension: cfg.Image.MaxDimension,
		MaxPixels:    cfg.Image.MaxPixels,
	})

	srv := server.New(
		pipeline.New(generator, images, personas),
		personas,
		artifacts,
		server.Options{
			PreviewLength:  cfg.Image.PreviewLength,
			MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	)

	listenAddr := cfg.Server.Address
	if addr != "" {
		listenAddr = addr
	}

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Persona bot API listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func newGenerator(cfg *config.Config) pipeline.Generator {
	timeout := time.Duration(cfg.ModelSettings.RequestTimeoutSeconds) * time.Second

	switch cfg.ModelSettings.Provider {
	case "nvidia":
		nvidiaKey := os.Getenv("NVIDIA_API_KEY")
		if nvidiaKey == "" {
			log.Fatal("Missing required environment variable: NVIDIA_API_KEY")
		}
		return nvidia.NewClient(
			nvidiaKey,
			cfg.ModelSettings.NvidiaBaseURL,
			nvidia.ModelConfig{ID: cfg.ModelSettings.NvidiaModel, MaxToken: cfg.ModelSettings.MaxTokens},
			cfg.ModelSettings.Temperature,
			cfg.ModelSettings.TopP,
			timeout,
		)
	case "gemini", "":
		googleKey := os.Getenv("GOOGLE_API_KEY")
		if googleKey == "" {
			log.Fatal("Missing required environment variable: GOOGLE_API_KEY")
		}
		log.Printf("Gemini client initialized (model: %s)", cfg.ModelSettings.GeminiModel)
		return gemini.NewAdapter(googleKey, cfg.ModelSettings.GeminiModel, timeout)
	default:
		log.Fatalf("Unknown model provider: %s", cfg.ModelSettings.Provider)
		return nil
	}
}

func newArtifactStore(cfg *config.Config) (artifact.Store, func()) {
	switch cfg.Artifacts.Backend {
	case "redis":
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			log.Fatal("Missing required environment variable: REDIS_URL")
		}
		c, err := cache.NewRedisCache(redisURL, cfg.Artifacts.Prefix)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		ttl := time.Duration(cfg.Artifacts.TTLHours * float64(time.Hour))
		log.Printf("Storing image artifacts in Redis (ttl %v)", ttl)
		return artifact.NewRedisStore(c, ttl), func() { c.Close() }
	case "none":
		return artifact.Nop{}, func() {}
	default:
		log.Printf("Storing image artifacts in %s", cfg.Artifacts.Dir)
		return artifact.NewFileStore(cfg.Artifacts.Dir), func() {}
	}
}
