package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jguan/modelrun/pkg/config"
	"github.com/jguan/modelrun/pkg/gateway"
	"github.com/jguan/modelrun/pkg/infra/clipboard"
	"github.com/jguan/modelrun/pkg/infra/logger"
	"github.com/jguan/modelrun/pkg/registry"
	"github.com/jguan/modelrun/pkg/unit"
	"github.com/jguan/modelrun/pkg/unit/catalog"
)

var (
	cliVersion   = "dev"
	cliBuildDate = "unknown"
	cliGitCommit = "unknown"
)

// Copier puts text on the system clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
}

type RootCommand struct {
	cmd       *cobra.Command
	cfg       *config.Config
	catalog   *catalog.Catalog
	gateway   *gateway.Gateway
	registry  *unit.Registry
	clipboard Copier
	opts      *OutputOptions
	formatStr string
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{
		opts:      NewOutputOptions(),
		clipboard: clipboard.New(),
	}

	cmd := &cobra.Command{
		Use:   "modelrun",
		Short: "modelrun - inference container launch planner",
		Long: `modelrun helps pick an accelerator, a model and an inference engine,
then renders a ready-to-paste docker run command with tuned parameters.

Catalog data is built in and can be extended with YAML files from the
directory named by catalog.extra_dir in the config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: root.persistentPreRunE,
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVarP(&root.formatStr, "output", "o", "table", "Output format (table, json, yaml)")
	pflags.BoolVarP(&root.opts.Quiet, "quiet", "q", false, "Suppress output")
	pflags.String("config", "", "Config file path (TOML)")

	viper.BindPFlag("output", pflags.Lookup("output"))
	viper.BindPFlag("quiet", pflags.Lookup("quiet"))
	viper.BindPFlag("config", pflags.Lookup("config"))

	root.cmd = cmd

	root.addSubCommands()

	return root
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	var err error
	r.cfg, err = config.Load(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !cmd.Flags().Changed("output") {
		r.formatStr = r.cfg.General.Output
	}
	format, err := ParseOutputFormat(r.formatStr)
	if err != nil {
		return err
	}
	r.opts.Format = format

	logger.Reset()
	logger.Init(logger.Config{
		Level:  r.cfg.Logging.Level,
		Format: r.cfg.Logging.Format,
		Output: os.Stderr,
	})

	if err := r.setup(r.cfg); err != nil {
		return err
	}

	logger.Debug("catalog loaded",
		"accelerators", len(r.catalog.Accelerators()),
		"models", len(r.catalog.Models()),
		"engines", len(r.catalog.Engines()),
		"extra_dir", r.cfg.Catalog.ExtraDir,
	)

	return nil
}

// setup builds the catalog, registry and gateway from cfg.
func (r *RootCommand) setup(cfg *config.Config) error {
	c, err := catalog.Builtin()
	if err != nil {
		return fmt.Errorf("load built-in catalog: %w", err)
	}
	if cfg.Catalog.ExtraDir != "" {
		if c, err = c.WithOverlayDir(cfg.Catalog.ExtraDir); err != nil {
			return fmt.Errorf("load catalog overlay: %w", err)
		}
	}

	reg := unit.NewRegistry()
	if err := registry.RegisterAll(reg,
		registry.WithCatalog(c),
		registry.WithDefaults(cfg.Defaults.Parameters()),
	); err != nil {
		return fmt.Errorf("register units: %w", err)
	}

	r.cfg = cfg
	r.catalog = c
	r.registry = reg
	r.gateway = gateway.NewGateway(reg,
		gateway.WithTimeout(cfg.Server.RequestTimeoutD),
		gateway.WithLogger(logger.Default()),
	)
	return nil
}

func (r *RootCommand) addSubCommands() {
	r.cmd.AddCommand(NewVersionCommand(r))
	r.cmd.AddCommand(NewCatalogCommand(r))
	r.cmd.AddCommand(NewRecommendCommand(r))
	r.cmd.AddCommand(NewGenerateCommand(r))
	r.cmd.AddCommand(NewServeCommand(r))
}

// query runs a unit through the gateway and returns its data.
func (r *RootCommand) query(ctx context.Context, unitName string, input map[string]any) (any, error) {
	resp := r.gateway.Handle(ctx, &gateway.Request{
		Type:  gateway.TypeQuery,
		Unit:  unitName,
		Input: input,
	})
	if !resp.Success {
		return nil, resp.Error
	}
	return resp.Data, nil
}

func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) Gateway() *gateway.Gateway {
	return r.gateway
}

func (r *RootCommand) Registry() *unit.Registry {
	return r.registry
}

func (r *RootCommand) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *RootCommand) Config() *config.Config {
	return r.cfg
}

func (r *RootCommand) OutputOptions() *OutputOptions {
	return r.opts
}

func (r *RootCommand) SetOutputWriter(w io.Writer) {
	r.opts.Writer = w
}

func (r *RootCommand) SetErrorWriter(w io.Writer) {
	r.opts.ErrWriter = w
}

func (r *RootCommand) SetClipboard(c Copier) {
	r.clipboard = c
}

func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

func Execute() {
	root := NewRootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		PrintError(err, root.OutputOptions())
		stop()
		os.Exit(1)
	}
}

func SetVersion(version, buildDate, gitCommit string) {
	cliVersion = version
	cliBuildDate = buildDate
	cliGitCommit = gitCommit
}

func GetVersion() string {
	return cliVersion
}

func GetBuildDate() string {
	return cliBuildDate
}

func GetGitCommit() string {
	return cliGitCommit
}
