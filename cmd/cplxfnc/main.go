package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cimatosa/cplxfnc"
	"github.com/cimatosa/cplxfnc/mpc"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	tol        float64
	limit      int
	prec       uint
	configPath string
	verbose    bool
	digits     int

	logger *zap.Logger
	eval   *cplxfnc.Evaluator
)

var validate = validator.New()

var rootCmd = &cobra.Command{
	Use:   "cplxfnc",
	Short: "Hurwitz zeta and upper incomplete gamma to a certified relative tolerance",
	Long: `cplxfnc evaluates ζ(s, a) and Γ(s, z) for complex arguments.

Each value is computed in ball arithmetic with increasing working
precision until its certified relative error is at most --tol, or the
command fails. Complex arguments are written as "a+bi", "(a b)", "i" or
plain reals; put "--" before arguments that start with a minus sign.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		eval, err = newEvaluator(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newEvaluator layers the config file under the flags the user set.
func newEvaluator(cmd *cobra.Command) (*cplxfnc.Evaluator, error) {
	cfg := cplxfnc.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = cplxfnc.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("tol") {
		cfg.Tol = tol
	}
	if flags.Changed("limit") {
		cfg.Limit = limit
	}
	if flags.Changed("prec") {
		cfg.ZetaPrec, cfg.GammaPrec = prec, prec
	}
	return cplxfnc.New(cplxfnc.WithConfig(cfg), cplxfnc.WithLogger(logger))
}

var zetaCmd = &cobra.Command{
	Use:   "zeta <s> <a>",
	Short: "Hurwitz zeta function ζ(s, a)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, a, err := parsePair(args)
		if err != nil {
			return err
		}
		r, err := eval.ZetaResult(s, a)
		if err != nil {
			return err
		}
		printResult(cmd, r)
		return nil
	},
}

var gammaIncCmd = &cobra.Command{
	Use:   "gammainc <s> <z>",
	Short: "Upper incomplete gamma function Γ(s, z)",
	Long: `Upper incomplete gamma function Γ(s, z).

On the negative real axis "x+0i" (or plain "x") gives the principal value
and "x-0i" the limit from below.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, z, err := parsePair(args)
		if err != nil {
			return err
		}
		r, err := eval.GammaIncResult(s, z)
		if err != nil {
			return err
		}
		printResult(cmd, r)
		return nil
	},
}

var uasympCmd = &cobra.Command{
	Use:   "uasymp <a> <b> <z>",
	Short: "Asymptotic series z^a U(a, b, z) for real arguments",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v [3]float64
		for i, arg := range args {
			c, err := mpc.ParseComplex128(arg)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			if imag(c) != 0 {
				return fmt.Errorf("argument %d: %q is not real", i+1, arg)
			}
			v[i] = real(c)
		}
		u, err := cplxfnc.UAsymp(v[0], v[1], v[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), format(complex(u, 0)))
		return nil
	},
}

// batchFile is the input of the batch command:
//
//	function: gamma_inc
//	points:
//	  - {s: "0.1", x: "-3.6-0i"}
type batchFile struct {
	Function string       `yaml:"function" validate:"oneof=zeta gamma_inc"`
	Points   []batchPoint `yaml:"points" validate:"min=1,dive"`
}

type batchPoint struct {
	S string `yaml:"s" validate:"required"`
	X string `yaml:"x" validate:"required"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Evaluate every point of a YAML file concurrently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bf, err := readBatch(args[0])
		if err != nil {
			return err
		}
		pts := make([]cplxfnc.Point, len(bf.Points))
		for i, p := range bf.Points {
			if pts[i].S, pts[i].X, err = parsePair([]string{p.S, p.X}); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
		logger.Debug("batch", zap.String("function", bf.Function), zap.Int("points", len(pts)))

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		var vals []complex128
		if bf.Function == "zeta" {
			vals, err = eval.ZetaBatch(ctx, pts)
		} else {
			vals, err = eval.GammaIncBatch(ctx, pts)
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, v := range vals {
			fmt.Fprintf(out, "%s\t%s\t%s\n", bf.Points[i].S, bf.Points[i].X, format(v))
		}
		return nil
	},
}

func readBatch(path string) (batchFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return batchFile{}, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var bf batchFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&bf); err != nil {
		return batchFile{}, fmt.Errorf("decode batch file: %w", err)
	}
	if err := validate.Struct(bf); err != nil {
		return batchFile{}, fmt.Errorf("invalid batch file: %w", err)
	}
	return bf, nil
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the --config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cplxfnc.ConfigSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func parsePair(args []string) (complex128, complex128, error) {
	x, err := mpc.ParseComplex128(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse %q: %w", args[0], err)
	}
	y, err := mpc.ParseComplex128(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse %q: %w", args[1], err)
	}
	return x, y, nil
}

// format prints v in scientific notation with --digits mantissa decimals.
func format(v complex128) string {
	c := mpc.New(64).SetComplex128(v)
	defer c.Close()
	return c.StringScientific(digits)
}

func printResult(cmd *cobra.Command, r cplxfnc.Result) {
	fmt.Fprintln(cmd.OutOrStdout(), format(r.Value))
	logger.Debug("result",
		zap.Complex128("value", r.Value),
		zap.Uint("prec", r.Prec),
		zap.Int("attempts", r.Attempts),
		zap.Float64("rel_err", r.RelErr),
		zap.Stringer("regime", r.Regime))
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&tol, "tol", cplxfnc.DefaultTol, "maximum relative error")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", cplxfnc.DefaultLimit, "number of working precisions tried")
	rootCmd.PersistentFlags().UintVar(&prec, "prec", 0, "initial working precision in bits (default per function)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVar(&digits, "digits", 16, "mantissa digits printed after the decimal point")

	rootCmd.AddCommand(zetaCmd)
	rootCmd.AddCommand(gammaIncCmd)
	rootCmd.AddCommand(uasympCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
