package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coastalops/wavedeck/internal/xbeach"
	"github.com/coastalops/wavedeck/pkg/models"
)

var (
	spectrumOut    string
	spectrumFormat string
)

// spectrumCmd renders a boundary spectra deck from a JSON payload
var spectrumCmd = &cobra.Command{
	Use:   "spectrum <payload.json>",
	Short: "Render a boundary spectra deck",
	Long: `Reads a spectrum payload and writes the fixed-width boundary file.
The swan layout produces a SWAN 1 stationary file (instat = 5 in XBeach)
and the vardens layout produces the plain variance density table
(instat = 6).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSpectrum(args[0], spectrumOut, spectrumFormat)
	},
}

func init() {
	rootCmd.AddCommand(spectrumCmd)

	spectrumCmd.Flags().StringVarP(&spectrumOut, "output", "o", "bc.txt", "output file path")
	spectrumCmd.Flags().StringVarP(&spectrumFormat, "format", "f", "swan", "boundary layout: swan or vardens")
}

func runSpectrum(payloadPath, outPath, formatName string) error {
	format, err := xbeach.ParseBoundaryFormat(formatName)
	if err != nil {
		return err
	}

	var sp models.Spectrum
	if err := loadPayload(payloadPath, &sp); err != nil {
		return err
	}

	msg := "Writing SWAN formatted boundary input"
	if format == xbeach.FormatVarDens {
		msg = "Writing 2D spectrum for variance density input"
	}
	log.Info().Str("output", outPath).Int("instat", format.Instat()).Msg(msg)

	if err := xbeach.WriteBoundaryFile(outPath, sp, format); err != nil {
		return err
	}

	log.Info().Str("output", outPath).Int("frequencies", len(sp.Frequencies)).Msg("Boundary deck written")
	return nil
}
