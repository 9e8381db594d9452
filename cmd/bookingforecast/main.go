package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/bookingforecast/internal/forecast"
	"github.com/lox/bookingforecast/internal/ingest"
	"github.com/lox/bookingforecast/internal/metrics"
	"github.com/lox/bookingforecast/internal/report"
)

type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" env:"BOOKING_LOG_LEVEL"`

	Evaluate EvaluateCmd `cmd:"" default:"withargs" help:"Compare additive and multiplicative forecasts against the naive baseline."`
	Profile  ProfileCmd  `cmd:"" help:"Print the booking curve profiles built from training data."`
}

type OutputFlags struct {
	Format string `help:"Output format (text, csv)." enum:"text,csv" default:"text" env:"BOOKING_FORMAT"`
	Output string `short:"o" help:"Write the table to this file instead of stdout." type:"path"`
}

// open returns the table destination and a close func.
func (o OutputFlags) open(stdout io.Writer) (io.Writer, func() error, error) {
	if o.Output == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(o.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

type EvaluateCmd struct {
	Training   string `arg:"" help:"Training booking curves (CSV)." type:"existingfile"`
	Validation string `arg:"" help:"Validation booking curves with naive_forecast (CSV)." type:"existingfile"`

	OutputFlags `embed:""`

	MetricsFile    string `help:"Write run metrics in node exporter textfile format." type:"path" env:"BOOKING_METRICS_FILE"`
	ShowExclusions bool   `help:"List validation records that could not be scored."`
}

func (c *EvaluateCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *EvaluateCmd) run(stdout io.Writer) error {
	outcome := "error"
	defer func() {
		metrics.RunsTotal.WithLabelValues(outcome).Inc()
		if c.MetricsFile == "" {
			return
		}
		if err := metrics.WriteTextfile(c.MetricsFile); err != nil {
			log.Error().Err(err).Str("path", c.MetricsFile).Msg("write metrics")
			return
		}
		log.Debug().Str("path", c.MetricsFile).Msg("metrics written")
	}()

	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	training, err := ingest.LoadTraining(c.Training)
	if err != nil {
		outcome = outcomeFor(err)
		return err
	}
	metrics.RecordsRead.WithLabelValues("training").Add(float64(len(training)))

	validation, err := ingest.LoadValidation(c.Validation)
	if err != nil {
		outcome = outcomeFor(err)
		return err
	}
	metrics.RecordsRead.WithLabelValues("validation").Add(float64(len(validation)))

	log.Info().
		Int("training", len(training)).
		Int("validation", len(validation)).
		Msg("datasets loaded")

	res, err := forecast.Run(training, validation)
	metrics.ObserveResult(res)
	if res != nil {
		logProfiles(res.Profiles)
		logExclusions(res)
	}
	if err != nil {
		outcome = outcomeFor(err)
		return err
	}

	e := res.Evaluation
	log.Info().
		Int("scored", len(e.Records)).
		Float64("error_naive", e.TotalErrorNaive).
		Float64("error_additive", e.TotalErrorAdditive).
		Float64("error_multiplicative", e.TotalErrorMultiplicative).
		Float64("mase_additive", e.MASEAdditive).
		Float64("mase_multiplicative", e.MASEMultiplicative).
		Stringer("winner", e.Winner).
		Strs("columns", report.ResultColumns(e.Winner)).
		Msg("evaluation complete")

	fmt.Fprintln(stdout, e.Label())

	w, closeOut, err := c.open(stdout)
	if err != nil {
		return err
	}
	if err := report.WriteResult(w, format, e); err != nil {
		closeOut()
		return fmt.Errorf("write result: %w", err)
	}
	if c.ShowExclusions && len(res.Exclusions) > 0 {
		fmt.Fprintln(w)
		if err := report.WriteExclusions(w, format, res.Exclusions); err != nil {
			closeOut()
			return fmt.Errorf("write exclusions: %w", err)
		}
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	outcome = "ok"
	return nil
}

type ProfileCmd struct {
	Training string `arg:"" help:"Training booking curves (CSV)." type:"existingfile"`

	OutputFlags `embed:""`
}

func (c *ProfileCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ProfileCmd) run(stdout io.Writer) error {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	training, err := ingest.LoadTraining(c.Training)
	if err != nil {
		return err
	}
	derived, err := forecast.Derive(training)
	if err != nil {
		return err
	}
	profiles, err := forecast.BuildProfiles(derived)
	if err != nil {
		return fmt.Errorf("build profiles: %w", err)
	}
	logProfiles(profiles)

	w, closeOut, err := c.open(stdout)
	if err != nil {
		return err
	}
	if err := report.WriteProfiles(w, format, profiles); err != nil {
		closeOut()
		return fmt.Errorf("write profiles: %w", err)
	}
	return closeOut()
}

func outcomeFor(err error) string {
	var inputErr *ingest.InputError
	var integrityErr *forecast.IntegrityError
	switch {
	case errors.As(err, &inputErr), errors.Is(err, forecast.ErrBookingAfterDeparture):
		return "invalid_input"
	case errors.As(err, &integrityErr):
		return "integrity"
	case errors.Is(err, forecast.ErrZeroNaiveError), errors.Is(err, forecast.ErrNoScorableRecords):
		return "degenerate"
	}
	return "error"
}

func logProfiles(p *forecast.Profiles) {
	if p == nil {
		return
	}
	log.Info().
		Int("records", p.Stats.Records).
		Int("departures", p.Stats.Departures).
		Int("remaining_demand_keys", p.RemainingDemand.Len()).
		Int("booking_rate_keys", p.BookingRate.Len()).
		Msg("profiles built")
	if p.Stats.ZeroFinalDemand > 0 {
		log.Warn().
			Int("records", p.Stats.ZeroFinalDemand).
			Msg("departures with zero final demand left out of booking rate profile")
	}
}

func logExclusions(res *forecast.Result) {
	counts := res.ExclusionCounts()
	if len(counts) == 0 {
		return
	}
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	ev := log.Warn().Int("total", len(res.Exclusions)).Int("validation", res.ValidationRecords)
	for _, r := range reasons {
		ev = ev.Int(r, counts[forecast.ExclusionReason(r)])
	}
	ev.Msg("validation records excluded")
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(lvl)
}

// loadEnvFile reads BOOKING_ENV_FILE, or .env, before flags resolve. A
// missing default file is fine.
func loadEnvFile() error {
	path := os.Getenv("BOOKING_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func main() {
	envErr := loadEnvFile()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bookingforecast"),
		kong.Description("Airline booking curve demand forecasting."),
		kong.UsageOnError(),
	)
	setupLogging(cli.LogLevel)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("could not load env file")
	}

	ctx.FatalIfErrorf(ctx.Run())
}
