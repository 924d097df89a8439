package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/schedtext/internal/profile"
	"github.com/hrygo/schedtext/plugin/isodate"
	"github.com/hrygo/schedtext/plugin/locale"
	"github.com/hrygo/schedtext/plugin/timestr"
	"github.com/hrygo/schedtext/server"
	"github.com/hrygo/schedtext/server/timezone"
)

const version = "0.1.0"

// selfTestInputs are the time strings the web planner was checked against.
var selfTestInputs = []string{
	"1:00 pm", "1:00 p.m.", "100 p", "1:00p.m.", "1:00p", "1 pm", "1 p.m.", "1 p", "1pm",
	"1p.m.", "1p", "1:pm", "13:00", "13", "944am", "1354", "12335", "1232p",
}

var rootCmd = &cobra.Command{
	Use:           "schedtext",
	Short:         "Normalize free-form schedule times and ISO dates",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, logger, err := loadProfile()
		if err != nil {
			return err
		}
		locales, err := loadLocales(p)
		if err != nil {
			return err
		}
		s, err := server.NewServer(p, locales, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return s.Start(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			return s.Shutdown(context.Background())
		})
		return g.Wait()
	},
}

var timeCmd = &cobra.Command{
	Use:   "time <raw>",
	Short: "Normalize a time string such as 1233pm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, logger, err := loadProfile()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = p.TimeFormat
		}
		out := timestr.NewService(p.TimeFormat, logger).Parse(args[0], format)
		if !out.IsOk() {
			logger.Warn("input left unchanged", slog.String("input", args[0]), slog.String("error", out.Err.Error()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Get())
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <iso-date>",
	Short: "Decode an ISO date(-time) into calendar fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := newCodec()
		if err != nil {
			return err
		}
		dt, err := codec.Decode(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dt)
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <year> <month> <day>",
	Short: "Encode calendar fields as YYYY-MM-DD",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec, err := newCodec()
		if err != nil {
			return err
		}
		var fields [3]int
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return errors.Wrapf(err, "argument %d", i+1)
			}
			fields[i] = v
		}
		fallback, _ := cmd.Flags().GetString("fallback")
		date := isodate.CalendarDate{Year: fields[0], Month: fields[1], Day: fields[2]}
		fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(date, fallback))
		return nil
	},
}

var selfTestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Print the reference time inputs under a 12-hour and a 24-hour layout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, err := loadProfile()
		if err != nil {
			return err
		}
		svc := timestr.NewService(timestr.DefaultTimeFormat, logger)
		w := cmd.OutOrStdout()
		for _, format := range []string{"g:i a", "H:i"} {
			fmt.Fprintf(w, "format %q\n", format)
			for _, in := range selfTestInputs {
				fmt.Fprintf(w, "  %-10s -> %s\n", in, svc.ParseTime(in, format))
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	pf.String("addr", "", "address of server")
	pf.Int("port", 8081, "port of server")
	pf.String("timezone", timezone.TimezoneLocal, "reference time zone for ISO dates")
	pf.String("time-format", "", "PHP-style layout for times")
	pf.String("datetime-format", "", "PHP-style layout for date-times")
	pf.String("locale-dir", "", "directory of <tag>.yaml locale tables")
	pf.String("locale", "en", "default locale tag")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.Float64("rate-limit", 10, "requests per second per client")
	pf.Int("rate-burst", 20, "burst size per client")

	for _, name := range []string{
		"mode", "addr", "port", "timezone", "time-format", "datetime-format",
		"locale-dir", "locale", "log-level", "rate-limit", "rate-burst",
	} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("schedtext")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	timeCmd.Flags().String("format", "", "output layout (defaults to --time-format)")
	encodeCmd.Flags().String("fallback", "", "value printed when the fields are not a date")

	rootCmd.AddCommand(serveCmd, timeCmd, decodeCmd, encodeCmd, selfTestCmd)
}

func loadProfile() (*profile.Profile, *slog.Logger, error) {
	p := &profile.Profile{
		Mode:           viper.GetString("mode"),
		Addr:           viper.GetString("addr"),
		Port:           viper.GetInt("port"),
		Version:        version,
		Timezone:       viper.GetString("timezone"),
		TimeFormat:     viper.GetString("time-format"),
		DateTimeFormat: viper.GetString("datetime-format"),
		LocaleDir:      viper.GetString("locale-dir"),
		Locale:         viper.GetString("locale"),
		LogLevel:       viper.GetString("log-level"),
		RateLimit:      viper.GetFloat64("rate-limit"),
		RateBurst:      viper.GetInt("rate-burst"),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to validate profile")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: p.SlogLevel()}))
	slog.SetDefault(logger)
	return p, logger, nil
}

func loadLocales(p *profile.Profile) (*locale.Registry, error) {
	reg := locale.NewRegistry()
	if p.LocaleDir == "" {
		return reg, nil
	}
	if err := reg.LoadDir(p.LocaleDir); err != nil {
		return nil, errors.Wrap(err, "failed to load locales")
	}
	slog.Info("locales loaded", slog.Any("tags", reg.Tags()))
	return reg, nil
}

func newCodec() (*isodate.Codec, error) {
	p, logger, err := loadProfile()
	if err != nil {
		return nil, err
	}
	loc, err := timezone.ParseTimezone(p.Timezone)
	if err != nil {
		return nil, err
	}
	return isodate.NewCodec(loc, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
