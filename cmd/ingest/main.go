// Command ingest loads customer and loan spreadsheets into the record store
// and recomputes current debt.
package main

import (
	"context"
	"credit-approval/internal/config"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/database/postgres"
	"credit-approval/internal/infrastructure/logging"
	"credit-approval/internal/ingestion"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagCustomerFile = "customer-file"
	flagLoanFile     = "loan-file"
	flagAsync        = "async"
	flagStages       = "stages"
	flagConfigDir    = "config-dir"
)

type options struct {
	configDir    string
	customerFile string
	loanFile     string
	stages       []string
	async        bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.customerFile == "" {
		opts.customerFile = cfg.Ingestion.CustomerFile
	}
	if opts.loanFile == "" {
		opts.loanFile = cfg.Ingestion.LoanFile
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	req := ingestion.Request{
		CustomerFile: opts.customerFile,
		LoanFile:     opts.loanFile,
		Stages:       opts.stages,
		Mode:         ingestion.ModeSync,
	}
	if err := checkInputs(req); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.async {
		req.Mode = ingestion.ModeAsync
		return enqueue(ctx, cfg, req, out, logger)
	}

	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	svc := ingestion.NewService(postgres.NewIngestionRepository(pool, logger), logger)
	report, runErr := ingestion.NewPipeline(svc, logger).Run(ctx, req)
	printReport(out, report)
	return runErr
}

// parseFlags binds the command line into a private viper instance so the
// same keys can also come from INGEST_* environment variables.
func parseFlags(args []string) (options, error) {
	fset := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	fset.String(flagConfigDir, ".", "directory containing config.yml")
	fset.String(flagCustomerFile, "", "customer spreadsheet (.xlsx or .csv); defaults to ingestion.customerFile")
	fset.String(flagLoanFile, "", "loan spreadsheet (.xlsx or .csv); defaults to ingestion.loanFile")
	fset.StringSlice(flagStages, nil, "subset of stages to run (customers,loans,debt)")
	fset.Bool(flagAsync, false, "queue the run on RabbitMQ instead of running it in-process")
	if err := fset.Parse(args); err != nil {
		return options{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("INGEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fset); err != nil {
		return options{}, fmt.Errorf("bind flags: %w", err)
	}

	return options{
		configDir:    v.GetString(flagConfigDir),
		customerFile: v.GetString(flagCustomerFile),
		loanFile:     v.GetString(flagLoanFile),
		stages:       v.GetStringSlice(flagStages),
		async:        v.GetBool(flagAsync),
	}, nil
}

// checkInputs fails before any database work when a selected stage's input
// file is missing.
func checkInputs(req ingestion.Request) error {
	needs := map[string]string{
		ingestion.StageCustomers: req.CustomerFile,
		ingestion.StageLoans:     req.LoanFile,
	}
	stages := req.Stages
	if len(stages) == 0 {
		stages = []string{ingestion.StageCustomers, ingestion.StageLoans}
	}
	for _, stage := range stages {
		path, ok := needs[stage]
		if !ok {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%s file not found: %s", stage, path)
			}
			return fmt.Errorf("%s file: %w", stage, err)
		}
	}
	return nil
}

func enqueue(ctx context.Context, cfg *config.Config, req ingestion.Request, out io.Writer, logger *slog.Logger) error {
	uri, err := cfg.RabbitMQ.URI()
	if err != nil {
		return err
	}
	conn, err := amqp.Dial(uri)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer conn.Close()

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		return err
	}

	jobID, err := ingestion.NewDispatcher(publisher, logger).Enqueue(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "queued ingestion job %s\n", jobID)
	return nil
}

func printReport(out io.Writer, report *ingestion.Report) {
	if report == nil {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tCREATED\tUPDATED\tSKIPPED\tDURATION")
	for _, s := range report.Stages {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Stage, s.Created, s.Updated, s.Skipped, s.Duration)
	}
	if report.FailedStage != "" {
		fmt.Fprintf(tw, "%s\tFAILED\t\t\t\n", report.FailedStage)
	}
	_ = tw.Flush()
}
