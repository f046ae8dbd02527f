// swagger-docs serves and exports Swagger documentation for a demo items API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"

	"github.com/vitalvas/kasper-swagger/renderers"
	"github.com/vitalvas/kasper-swagger/session"
	"github.com/vitalvas/kasper-swagger/settings"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// cliOptions describes the CLI flags and subcommands.
type cliOptions struct {
	Version versionCommand `command:"version" description:"Print version information"`
	Serve   serveCommand   `command:"serve" description:"Serve the demo API with its documentation"`
	Export  exportCommand  `command:"export" description:"Write the OpenAPI document of the demo API"`
}

// documentFlags are shared by commands that build the description.
type documentFlags struct {
	SettingsPath string `short:"s" long:"settings" description:"Path to a YAML settings file" env:"SWAGGER_DOCS_SETTINGS"`
	Title        string `short:"T" long:"title" description:"API title" default:"Items API"`
	APIVersion   string `long:"api-version" description:"API version" default:"1.0.0"`
	URL          string `long:"url" description:"Base URL of the API, sets host and schemes"`
	DocsPath     string `long:"docs-path" description:"Path of the documentation view" default:"/docs/"`
}

// loadSettings returns the settings file contents or the defaults.
func (f documentFlags) loadSettings() (settings.Config, error) {
	if strings.TrimSpace(f.SettingsPath) == "" {
		return settings.DefaultConfig(), nil
	}
	return settings.LoadFile(f.SettingsPath)
}

// logFlags configure the slog logger.
type logFlags struct {
	Level  string `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" description:"Log format" choice:"text" choice:"json" default:"text"`
}

func (f logFlags) logger(w io.Writer) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(f.Level))

	opts := &slog.HandlerOptions{Level: level}
	if f.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// serveCommand runs the demo HTTP server.
type serveCommand struct {
	runner *cliRunner

	Listen          string        `short:"l" long:"listen" description:"Listen address" default:":8080" env:"SWAGGER_DOCS_LISTEN"`
	Secret          string        `long:"secret" description:"Session signing secret (random when empty)" env:"SWAGGER_DOCS_SECRET"`
	Username        string        `long:"username" description:"Demo login user name" default:"admin"`
	Password        string        `long:"password" description:"Demo login password" env:"SWAGGER_DOCS_PASSWORD" required:"yes"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" description:"Graceful shutdown timeout" default:"10s"`

	Document documentFlags `group:"Document"`
	Log      logFlags      `group:"Logging"`
}

// Execute runs the serve subcommand.
func (command *serveCommand) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return command.runner.runServe(ctx, command)
}

// exportCommand writes the OpenAPI document.
type exportCommand struct {
	runner *cliRunner

	Format   string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Validate bool   `long:"validate" description:"Validate the document before writing it"`
	Args     struct {
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Document documentFlags `group:"Document"`
}

// Execute runs the export subcommand.
func (command *exportCommand) Execute(_ []string) error {
	return command.runner.runExport(command)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs the version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	_, err := fmt.Fprintf(command.runner.stdout, "version:  %s\ncommit:   %s\nbuilt:    %s\n", Version, Commit, BuildTime)
	return err
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	programName := filepath.Base(strings.TrimSpace(os.Args[0]))
	if programName == "" || programName == "." {
		programName = "swagger-docs"
	}

	runner := &cliRunner{stdout: stdout, stderr: stderr, programName: programName}
	return runner.run(args)
}

// run parses CLI args and maps errors to exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(runner.stdout, err.Error())
			return 0
		}

		_, _ = fmt.Fprintln(runner.stderr, err.Error())
		return 2
	}

	_, _ = fmt.Fprintln(runner.stderr, err.Error())
	return 1
}

// parseCLIArgs parses CLI arguments and executes the selected subcommand.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Serve.runner = runner
	options.Export.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName

	if export := parser.Find("export"); export != nil {
		export.LongDescription = strings.TrimSpace(fmt.Sprintf(`
Write the OpenAPI (Swagger 2.0) document of the demo API with the configured
securityDefinitions. Writes to the output argument or stdout.

Examples:
> $ %s export --validate openapi.json
> $ %s export -f yaml --settings swagger.yaml
`, runner.programName, runner.programName))
	}

	_, err := parser.ParseArgs(args)
	return err
}

// runServe serves the demo application until ctx is cancelled.
func (runner *cliRunner) runServe(ctx context.Context, command *serveCommand) error {
	logger := command.Log.logger(runner.stderr)

	cfg, err := command.Document.loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	secret := command.Secret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("no session secret configured, sessions end with the process")
	}
	manager, err := session.NewManager(session.Config{Secret: []byte(secret)})
	if err != nil {
		return err
	}

	app, err := newDemoApp(demoOptions{
		Title:    command.Document.Title,
		URL:      command.Document.URL,
		Version:  command.Document.APIVersion,
		DocsPath: command.Document.DocsPath,
		Settings: cfg,
		Session:  manager,
		Users:    session.StaticCredentials{command.Username: command.Password},
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	srv := &http.Server{
		Addr:              command.Listen,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", command.Listen), slog.String("docs", command.Document.DocsPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), command.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// runExport renders the demo description and writes it to stdout or a file.
func (runner *cliRunner) runExport(command *exportCommand) error {
	cfg, err := command.Document.loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	app, err := newDemoApp(demoOptions{
		Title:    command.Document.Title,
		URL:      command.Document.URL,
		Version:  command.Document.APIVersion,
		DocsPath: command.Document.DocsPath,
		Settings: cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	doc, err := app.generator.Get(app.router)
	if err != nil {
		return fmt.Errorf("generate description: %w", err)
	}

	jsonSpec, err := renderers.NewSpecRenderer(cfg, nil).Render(doc)
	if err != nil {
		return fmt.Errorf("render openapi: %w", err)
	}

	if command.Validate {
		if err := validateSpec(jsonSpec); err != nil {
			return err
		}
	}

	data := jsonSpec
	if command.Format == "yaml" {
		data, err = renderers.NewYAMLSpecRenderer(cfg, nil).Render(doc)
		if err != nil {
			return fmt.Errorf("render openapi: %w", err)
		}
	} else {
		data = append(data, '\n')
	}

	output := strings.TrimSpace(command.Args.Output)
	if output == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write openapi to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("write openapi file %q: %w", output, err)
	}
	return nil
}

// validateSpec checks a Swagger 2.0 JSON document by converting it to
// OpenAPI 3 and running the kin-openapi validator.
func validateSpec(data []byte) error {
	var doc2 openapi2.T
	if err := json.Unmarshal(data, &doc2); err != nil {
		return fmt.Errorf("validate openapi: %w", err)
	}

	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return fmt.Errorf("validate openapi: convert: %w", err)
	}

	if err := doc3.Validate(context.Background()); err != nil {
		return fmt.Errorf("validate openapi: %w", err)
	}
	return nil
}
