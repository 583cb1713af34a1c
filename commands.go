package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	"github.com/fasal-sarthi-core/client/internal/advisory/geo"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	"github.com/fasal-sarthi-core/client/internal/advisory/orchestrators"
	"github.com/fasal-sarthi-core/client/internal/advisory/repo"
	"github.com/fasal-sarthi-core/client/internal/advisory/weather"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

func weatherCmd() *cobra.Command {
	var (
		city     string
		lat, lon float64
		here     bool
	)
	var cmd *cobra.Command
	cmd = &cobra.Command{
		Use:   "weather",
		Short: "Show current weather for the default city, a named city or a position",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			store := weather.NewStore(a.gw, a.cfg.Weather)
			var snap weather.Snapshot
			switch weatherSelection(city, here, cmd.Flags().Changed("lat")) {
			case "city":
				snap = store.SelectCity(ctx, city)
			case "coords":
				snap = store.SelectCoordinates(ctx, lat, lon)
			case "here":
				var err error
				snap, err = store.SelectCurrentLocation(ctx, locatorFromConfig(viper.GetString("location")))
				if err != nil {
					return err
				}
			default:
				snap = store.Activate(ctx)
			}
			if err := a.render.Weather(snap); err != nil {
				return err
			}
			return failed(snap.Weather)
		}),
	}
	cmd.Flags().StringVar(&city, "city", "", "city name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().BoolVar(&here, "here", false, "use the device position (see --location)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("city", "lat", "here")
	cmd.MarkFlagsMutuallyExclusive("city", "lon", "here")
	return cmd
}

func weatherSelection(city string, here, coords bool) string {
	switch {
	case city != "":
		return "city"
	case here:
		return "here"
	case coords:
		return "coords"
	}
	return "default"
}

// locatorFromConfig turns a "lat,lon" setting into a locator.
func locatorFromConfig(v string) geo.Locator {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return geo.Unavailable()
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return geo.LocatorFunc(func(context.Context) (geo.Position, error) {
			return geo.Position{}, fmt.Errorf("position %q is not \"lat,lon\"", v)
		})
	}
	return geo.Fixed(lat, lon)
}

func scanCmd() *cobra.Command {
	var (
		file string
		cure bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Diagnose crop disease from a leaf image",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			scan := orchestrators.NewScan(a.gw)
			snap := scan.Submit(ctx, model.ImageUpload{
				Filename:    filepath.Base(file),
				ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(file))),
				Data:        data,
			})
			if cure && snap.Phase() == orchestrators.PhasePrimarySucceeded {
				if snap, err = scan.RequestCure(ctx); err != nil {
					return err
				}
			}
			if err := a.render.Scan(snap); err != nil {
				return err
			}
			return errors.Join(failed(snap.Primary), failed(snap.Secondary))
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JPG or PNG image of the affected leaf")
	cmd.Flags().BoolVar(&cure, "cure", false, "also ask for a cure for the diagnosed disease")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func cropCmd() *cobra.Command {
	var (
		form   model.CropForm
		advice bool
	)
	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Recommend a crop for a soil and climate profile",
		Long: fmt.Sprintf("Recommend a crop for a soil and climate profile.\nSoil types: %s\nIrrigation: %s\nPrevious crop: %s",
			strings.Join(model.CropSoilTypes, ", "),
			strings.Join(model.CropIrrigationTypes, ", "),
			strings.Join(model.CropPreviousCrops, ", ")),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			crop := orchestrators.NewCropRec(a.gw)
			snap := crop.Submit(ctx, form)
			if advice && snap.Phase() == orchestrators.PhasePrimarySucceeded {
				var err error
				if snap, err = crop.RequestAdvice(ctx); err != nil {
					return err
				}
			}
			if err := a.render.Crop(snap); err != nil {
				return err
			}
			return errors.Join(failed(snap.Primary), failed(snap.Secondary))
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.SoilType, "soil-type", "", "soil type")
	f.StringVar(&form.IrrigationType, "irrigation", "", "irrigation type")
	f.StringVar(&form.PreviousCrop, "previous-crop", "", "previous crop (Other if not listed)")
	f.StringVar(&form.SoilPH, "ph", "", "soil pH")
	f.StringVar(&form.NitrogenKgHa, "nitrogen", "", "nitrogen, kg/ha")
	f.StringVar(&form.PhosphorusKgHa, "phosphorus", "", "phosphorus, kg/ha")
	f.StringVar(&form.PotassiumKgHa, "potassium", "", "potassium, kg/ha")
	f.StringVar(&form.AnnualRainfallMm, "rainfall", "", "annual rainfall, mm")
	f.StringVar(&form.AvgTempC, "temp", "", "average temperature, °C")
	f.StringVar(&form.AvgHumidityPct, "humidity", "", "average humidity, %")
	f.BoolVar(&advice, "advice", false, "also ask for a growing guide for the recommended crop")
	return cmd
}

func fertilizerCmd() *cobra.Command {
	var form model.FertilizerForm
	cmd := &cobra.Command{
		Use:   "fertilizer",
		Short: "Recommend a fertilizer for field conditions",
		Long: fmt.Sprintf("Recommend a fertilizer for field conditions.\nSoil types: %s\nCrop types: %s",
			strings.Join(model.FertilizerSoilTypes, ", "),
			strings.Join(model.FertilizerCropTypes, ", ")),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			snap := orchestrators.NewFertilizer(a.gw).Submit(ctx, form)
			if err := a.render.Fertilizer(snap); err != nil {
				return err
			}
			return failed(snap.State)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.Temparature, "temperature", "", "temperature, °C")
	f.StringVar(&form.Humidity, "humidity", "", "humidity, %")
	f.StringVar(&form.Moisture, "moisture", "", "soil moisture")
	f.StringVar(&form.Nitrogen, "nitrogen", "", "nitrogen")
	f.StringVar(&form.Potassium, "potassium", "", "potassium")
	f.StringVar(&form.Phosphorous, "phosphorous", "", "phosphorous")
	f.StringVar(&form.SoilType, "soil-type", "", "soil type")
	f.StringVar(&form.CropType, "crop-type", "", "crop type")
	return cmd
}

func transcriptCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "transcript", Short: "Inspect archived chat sessions"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <session>",
		Short: "Print an archived chat session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			n, err := archive.MessageCount(ctx, args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("no archived messages for session %q", args[0])
			}
			msgs, err := archive.LoadTranscript(ctx, args[0])
			if err != nil {
				return err
			}
			logx.Debug().Str("session", args[0]).Int("messages", n).Msg("transcript loaded")
			return a.render.Transcript(args[0], msgs)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear <session>",
		Short: "Delete an archived chat session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			if err := archive.ClearTranscript(ctx, args[0]); err != nil {
				return err
			}
			logx.Info().Str("session", args[0]).Msg("transcript cleared")
			return nil
		}),
	})
	return cmd
}

var errArchiveDisabled = errors.New("chat transcripts are disabled; set REDIS_URL")

// openArchive connects to Redis and registers the client for cleanup.
func (a *app) openArchive() (*repo.RedisTranscriptRepository, error) {
	if !a.cfg.Redis.Enabled() {
		return nil, errArchiveDisabled
	}
	ttl, err := time.ParseDuration(a.cfg.Chat.TranscriptTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_TRANSCRIPT_TTL %q: %w", a.cfg.Chat.TranscriptTTL, err)
	}
	rdb, err := a.cfg.Redis.New()
	if err != nil {
		return nil, fmt.Errorf("initialise redis client: %w", err)
	}
	prev := a.cleanup
	a.cleanup = func() {
		_ = rdb.Close()
		prev()
	}
	logx.Debug().Dur("ttl", ttl).Msg("transcript archive connected")
	return repo.NewRedisTranscriptRepository(rdb, ttl), nil
}

// failed maps a rendered failure to errReported so the process exits
// non-zero without printing the message twice.
func failed[T any](st async.State[T]) error {
	if st.Status == async.Failed {
		return errReported
	}
	return nil
}
