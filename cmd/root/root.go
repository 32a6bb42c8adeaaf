// Package root contains the root command and the shared wiring every
// subcommand builds on.
package root

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"budget-dashboard/internal/archive"
	"budget-dashboard/internal/categorizer"
	"budget-dashboard/internal/common"
	"budget-dashboard/internal/config"
	"budget-dashboard/internal/ingest"
	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/ofxparser"
	"budget-dashboard/internal/store"
)

// CommonFlags are the flags shared by the file-driven commands.
type CommonFlags struct {
	Inputs []string
	Output string
}

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg holds the loaded configuration after PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "budget-dashboard",
		Short: "Ingest OFX bank statements, categorize transactions and explore balances and spending.",
		Long: `budget-dashboard parses OFX bank exports and parquet archives into
categorized transactions, reconstructs the daily account balance and breaks
spending down per category. Run it as a CLI or serve the HTTP API.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-dashboard!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.Initialize()
			if err != nil {
				Log.Fatalf("Invalid configuration: %v", err)
			}
			Cfg = cfg
			Log = cfg.NewLogger()
			common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}

	// SharedFlags holds the common flag values.
	SharedFlags = CommonFlags{}

	// Anchor is the balance command's current-balance flag.
	Anchor string

	// Start and End bound the balance command's date range.
	Start string
	End   string

	// Description is the categorize command's input.
	Description string
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Input file(s)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// ReadInputs loads the -i files into memory for ingestion. Commands that
// need input files call this and fail fast when none were given.
func ReadInputs() []ingest.File {
	if len(SharedFlags.Inputs) == 0 {
		Log.Fatalf("At least one input file is required (-i)")
	}
	files := make([]ingest.File, 0, len(SharedFlags.Inputs))
	for _, path := range SharedFlags.Inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			Log.Fatalf("Failed to read %s: %v", path, err)
		}
		files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
	}
	return files
}

// Services bundles the wired application components for one command run.
type Services struct {
	Engine *categorizer.Engine
	Parser *ofxparser.Parser
	Codec  *archive.Codec
	Store  *store.TransactionStore
	Ingest *ingest.Service
}

// NewServices builds the full component graph from the loaded configuration.
func NewServices(ctx context.Context) *Services {
	rules, err := categorizer.NewRuleStore(Cfg.Categories.File, Log).Load()
	if err != nil {
		Log.Fatalf("Failed to load category rules: %v", err)
	}

	var opts []categorizer.Option
	if Cfg.AI.Enabled {
		client, err := categorizer.NewGeminiClient(ctx, Cfg.AI.APIKey, Cfg.AI.Model, Log)
		if err != nil {
			Log.Fatalf("Failed to initialize AI categorization: %v", err)
		}
		opts = append(opts, categorizer.WithAIFallback(client))
	}

	engine := categorizer.New(rules, Log, opts...)
	parser := ofxparser.New(engine, Log, Cfg.Currency.Fallback)
	codec := archive.NewCodec(Log, Cfg.Currency.Fallback)
	st := store.New(codec, Log)

	return &Services{
		Engine: engine,
		Parser: parser,
		Codec:  codec,
		Store:  st,
		Ingest: ingest.NewService(parser, codec, st, Log),
	}
}
