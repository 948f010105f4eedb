// Package cli implements the depmgmt command-line interface.
//
// Every query command loads the declaration manifest, replays it into a
// fresh container and then reads from that container. BOMs are fetched
// from the local Maven repository first and from the configured remote
// repositories after that, through a file or Redis cache.
//
// # Configuration
//
// Persistent flags are bound to viper, so each can also be set through the
// environment with the DEPMGMT_ prefix: --redis-addr is DEPMGMT_REDIS_ADDR.
// The container switches are read the same way, e.g.
// DEPMGMT_APPLY_MAVEN_EXCLUSIONS=false. Values in the manifest win over
// both.
//
// # Logging
//
// Logs go to stderr. --verbose (-v) switches to debug level. The logger is
// carried through the command context.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Alen-lv/dependency-management-plugin/pkg/buildinfo"
	"github.com/Alen-lv/dependency-management-plugin/pkg/cache"
	"github.com/Alen-lv/dependency-management-plugin/pkg/integrations/maven"
	"github.com/Alen-lv/dependency-management-plugin/pkg/manifest"
	"github.com/Alen-lv/dependency-management-plugin/pkg/observability"
	"github.com/Alen-lv/dependency-management-plugin/pkg/observability/prom"
	"github.com/Alen-lv/dependency-management-plugin/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depmgmt"

	envPrefix = "DEPMGMT"
)

// Viper keys of the persistent flags.
const (
	keyVerbose         = "verbose"
	keyManifest        = "manifest"
	keyRepositories    = "repository"
	keyLocalRepository = "local-repository"
	keyOffline         = "offline"
	keyNoCache         = "no-cache"
	keyRefresh         = "refresh"
	keyCacheTTL        = "cache-ttl"
	keyRedisAddr       = "redis-addr"
	keyRedisPassword   = "redis-password"
	keyRedisDB         = "redis-db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	v       *viper.Viper
	out     io.Writer
	metrics *prometheus.Registry
}

// New creates a CLI that logs to w. Metrics for the container, the cache and
// repository requests are collected from the start and served by "serve".
func New(w io.Writer, level log.Level) *CLI {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := prom.New(reg)
	observability.SetContainerHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	return &CLI{
		Logger:  newLogger(w, level),
		v:       viper.New(),
		out:     os.Stdout,
		metrics: reg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "depmgmt manages dependency versions per scope",
		Long: `depmgmt reads dependency management declarations (managed versions, dependency sets
and imported Maven BOMs), resolves them per scope and answers what version a
dependency gets, where that version came from and what it excludes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.v.GetBool(keyVerbose) {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.BoolP(keyVerbose, "v", false, "enable verbose logging")
	flags.StringP(keyManifest, "f", manifest.DefaultFile, "declaration manifest")
	flags.StringSlice(keyRepositories, []string{maven.DefaultRepository}, "remote Maven repository (repeatable, tried in order)")
	flags.String(keyLocalRepository, "", "local Maven repository (default ~/.m2/repository)")
	flags.Bool(keyOffline, false, "do not contact remote repositories")
	flags.Bool(keyNoCache, false, "disable the POM cache")
	flags.Bool(keyRefresh, false, "refetch POMs even when cached")
	flags.Duration(keyCacheTTL, cache.DefaultTTL, "how long fetched POMs stay cached")
	flags.String(keyRedisAddr, "", "share the POM cache through Redis at host:port")
	c.bindConfig(root)

	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.propertiesCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// bindConfig ties the persistent flags and DEPMGMT_* variables to the
// viper instance, along with the container settings defaults.
func (c *CLI) bindConfig(root *cobra.Command) {
	_ = c.v.BindPFlags(root.PersistentFlags())
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()
	settings.SetDefaults(c.v)
}
