package main

import (
	"context"
	"fmt"
	"os"

	"chicuadrado/app"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal"
	"chicuadrado/internal/config"
	"chicuadrado/internal/container"
	"chicuadrado/internal/errors"
	"chicuadrado/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the Spanish message of application errors
func errorText(err error) string {
	if errors.IsAppError(err) {
		return errors.UserMessage(err)
	}
	return err.Error()
}

// cli is the state shared by the subcommands once flags are parsed
type cli struct {
	cfgFile string
	config  *cliConfig
	deps    *container.Container
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "chicuadrado-cli",
		Short:         "Pruebas de Chi-Cuadrado sobre archivos CSV o Excel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "YAML config file with alpha/yates/format/max_mb")
	flags.Float64("alpha", 0.05, "nivel de significancia")
	flags.Bool("yates", true, "corrección de continuidad de Yates en tablas 2x2")
	flags.String("format", "text", "salida: text, json o yaml")
	flags.Bool("verbose", false, "log de depuración en stderr")

	rootCmd.AddCommand(
		newColumnsCmd(c),
		newIndependenceCmd(c),
		newGoodnessCmd(c),
		newHomogeneityCmd(c),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadCLIConfig(c.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	c.config = cfg

	appConfig := config.Default()
	appConfig.Analysis.DefaultAlpha = cfg.Alpha
	appConfig.Analysis.YatesCorrection = cfg.Yates
	appConfig.Upload.MaxMB = cfg.MaxMB

	logger := internal.NewNopLogger()
	if cfg.Verbose {
		logger = internal.NewLogger(internal.LogLevelDebug, "console")
	}
	c.deps, err = container.New(appConfig, logger)
	return err
}

func (c *cli) load(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileParseError(fmt.Sprintf("No se pudo abrir %s.", path), err)
	}
	defer f.Close()
	return c.deps.Loader.Load(ctx, path, f)
}

func newColumnsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "Lista las columnas y cuáles son categóricas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeColumns(cmd.OutOrStdout(), c.config.Format, ds, c.deps.Profiler.Summarize(ds))
		},
	}
}

// testFlags are the per-test flags; roles decide which of them are read
type testFlags struct {
	first, second string
	expected      string
	reportPath    string
}

func newIndependenceCmd(c *cli) *cobra.Command {
	var f testFlags
	cmd := &cobra.Command{
		Use:   "independence <file>",
		Short: "Prueba de independencia entre dos variables categóricas",
		Args:  cobra.ExactArgs(1),
		Example: `  chicuadrado-cli independence encuesta.csv --var1 Sexo --var2 Preferencia
  chicuadrado-cli independence encuesta.xlsx --var1 Sexo --var2 Region --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTest(cmd, args[0], stats.KindIndependence, f)
		},
	}
	cmd.Flags().StringVar(&f.first, "var1", "", "primera variable categórica")
	cmd.Flags().StringVar(&f.second, "var2", "", "segunda variable categórica")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "escribe el reporte de texto en esta ruta")
	return cmd
}

func newGoodnessCmd(c *cli) *cobra.Command {
	var f testFlags
	cmd := &cobra.Command{
		Use:     "goodness <file>",
		Short:   "Prueba de bondad de ajuste contra frecuencias esperadas",
		Example: `  chicuadrado-cli goodness encuesta.csv --variable Preferencia --expected 70,60,70`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTest(cmd, args[0], stats.KindGoodnessOfFit, f)
		},
	}
	cmd.Flags().StringVar(&f.first, "variable", "", "variable categórica")
	cmd.Flags().StringVar(&f.expected, "expected", "", "frecuencias esperadas separadas por comas")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "escribe el reporte de texto en esta ruta")
	_ = cmd.MarkFlagRequired("expected")
	return cmd
}

func newHomogeneityCmd(c *cli) *cobra.Command {
	var f testFlags
	cmd := &cobra.Command{
		Use:     "homogeneity <file>",
		Short:   "Prueba de homogeneidad de una variable entre grupos",
		Example: `  chicuadrado-cli homogeneity encuesta.csv --variable Preferencia --group Region`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTest(cmd, args[0], stats.KindHomogeneity, f)
		},
	}
	cmd.Flags().StringVar(&f.first, "variable", "", "variable categórica")
	cmd.Flags().StringVar(&f.second, "group", "", "variable de grupo")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "escribe el reporte de texto en esta ruta")
	return cmd
}

func (c *cli) runTest(cmd *cobra.Command, path string, kind stats.TestKind, f testFlags) error {
	ds, err := c.load(cmd.Context(), path)
	if err != nil {
		return err
	}

	// empty variables fall back to the first categorical columns, like the form
	req := app.FillDefaults(ds, app.TestRequest{
		Kind:     kind,
		Var1:     f.first,
		Var2:     f.second,
		Expected: f.expected,
		Alpha:    c.config.Alpha,
	})

	outcome, err := c.deps.TestService.Run(cmd.Context(), ds, req)
	if err != nil {
		return err
	}

	data, _ := outcome.ReportData()
	text := report.Build(data)
	if f.reportPath != "" {
		if err := os.WriteFile(f.reportPath, []byte(text), 0o644); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}
	return writeOutcome(cmd.OutOrStdout(), c.config.Format, outcome, text)
}
