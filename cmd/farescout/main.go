// Package main provides the farescout command line interface. It runs
// one pipeline pass and prints the digest to stdout, or emails it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/config"
	"github.com/farescout/farescout/internal/delivery"
	"github.com/farescout/farescout/internal/digest"
	"github.com/farescout/farescout/internal/pipeline"
	"github.com/farescout/farescout/internal/provider/resilience"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	_ = godotenv.Load()

	var (
		planPath   = flag.String("plan", os.Getenv("FARESCOUT_PLAN"), "path to the search plan YAML")
		daysAhead  = flag.Int("days-ahead", 0, "search horizon in days (0 uses the plan value)")
		cheapest   = flag.Int("cheapest", 0, "number of cheapest round trips to enrich (0 uses the plan value)")
		offers     = flag.Int("offers", 0, "lodging offers per trip (0 uses the plan value)")
		adults     = flag.Int("adults", 0, "number of adults (0 uses the plan value)")
		rooms      = flag.Int("rooms", 0, "number of rooms (0 uses the plan value)")
		noHotels   = flag.Bool("no-hotels", false, "skip lodging enrichment")
		asJSON     = flag.Bool("json", false, "print the digest as JSON")
		asHTML     = flag.Bool("html", false, "print the digest as HTML")
		emailTo    = flag.String("email", "", "email the HTML digest to this address instead of printing")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
		timeoutStr = flag.String("timeout", "10m", "overall run timeout")
	)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Debug().Str("version", Version).Msg("starting farescout")

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -timeout value")
	}

	plan, err := config.Load(*planPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load search plan")
	}

	p := pipeline.Build(pipeline.BuildConfig{
		Plan:     plan,
		Registry: resilience.NewRegistry(),
		Logger:   log,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, pipeline.Options{
		HorizonDays:   *daysAhead,
		CheapestTrips: *cheapest,
		OffersPerTrip: *offers,
		Adults:        *adults,
		Rooms:         *rooms,
		SkipLodging:   *noHotels,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	renderer := digest.NewRenderer(digest.Config{
		Adults: firstPositive(*adults, plan.Adults),
	})

	if *emailTo != "" {
		if err := sendDigest(log, renderer, result, *emailTo); err != nil {
			log.Fatal().Err(err).Msg("failed to email digest")
		}
		return
	}

	switch {
	case *asJSON:
		out, err := renderer.JSON(result.Trips)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to render JSON digest")
		}
		fmt.Println(out)
	case *asHTML:
		out, err := renderer.HTML(result.Trips)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to render HTML digest")
		}
		fmt.Println(out)
	default:
		fmt.Print(renderer.Text(result.Trips))
	}
}

func sendDigest(log zerolog.Logger, renderer *digest.Renderer, result *pipeline.Result, to string) error {
	html, err := renderer.HTML(result.Trips)
	if err != nil {
		return fmt.Errorf("rendering HTML digest: %w", err)
	}

	smtpPort := 0
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		smtpPort, _ = strconv.Atoi(raw)
	}
	mailer := delivery.NewMailer(delivery.MailerConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("GMAIL_USER"),
		Password: os.Getenv("GMAIL_APP_PASSWORD"),
		Logger:   log,
	})
	if !mailer.Configured() {
		return delivery.ErrNotConfigured
	}
	return mailer.SendHTML(to, "", html)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
