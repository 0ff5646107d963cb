package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/internal/holidays/seed"
)

var (
	seedYear    int
	seedCountry string
)

var seedHolidaysCmd = &cobra.Command{
	Use:   "seed-holidays",
	Short: "Insert the built-in public holidays of a year",
	Long: `Inserts the observed public holidays of --year for --country.
Dates that already have a holiday row are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		country := seedCountry
		if country == "" {
			country = e.cfg.Calendar.DefaultCountry
		}
		res, err := seed.NewSeeder(e.holidayStore()).SeedYear(cmd.Context(), seedYear, country)
		if err != nil {
			return err
		}
		e.log.Info("holidays seeded",
			zap.Int("year", seedYear),
			zap.String("country", country),
			zap.Int("inserted", res.Inserted),
			zap.Int("skipped", res.Skipped))
		return nil
	},
}

var importHolidaysCmd = &cobra.Command{
	Use:   "import-holidays <file.yaml>",
	Short: "Import holidays from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := seed.NewSeeder(e.holidayStore()).ImportYAML(cmd.Context(), f)
		if err != nil {
			return err
		}
		e.log.Info("holidays imported",
			zap.String("file", args[0]),
			zap.Int("inserted", res.Inserted),
			zap.Int("skipped", res.Skipped))
		return nil
	},
}

func init() {
	seedHolidaysCmd.Flags().IntVar(&seedYear, "year", time.Now().Year(), "calendar year to seed")
	seedHolidaysCmd.Flags().StringVar(&seedCountry, "country", "", "country code (defaults to HOLIDAY_COUNTRY)")
}
