package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/config"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/security"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitInactive = 2
)

// exitError carries a non-zero exit code for a license outcome that was
// reported successfully but is not the one the command hoped for.
type exitError struct {
	code   int
	status domain.LicenseState
}

func (e *exitError) Error() string {
	return fmt.Sprintf("license status %s", e.status)
}

// managerFactory builds the workflow for a loaded configuration.
type managerFactory func(cfg *config.Config, logger *slog.Logger) (license.ManagerInterface, error)

type cli struct {
	cfgFile    string
	licenseDir string
	verbose    bool

	stdin      io.Reader
	newManager managerFactory
	serve      func(cmd *cobra.Command, cfg *config.Config) error

	cfg    *config.Config
	logger *slog.Logger
}

func newCLI(stdin io.Reader) *cli {
	return &cli{
		stdin:      stdin,
		newManager: newLicenseManager,
		serve:      serveApplication,
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "licensectl",
		Short: "Inspect and manage the offline license of this installation",
		Long: `licensectl checks, activates and removes the signed license file that
unlocks the application on this device. Activation never contacts a server:
the license is verified against the embedded public key and bound to the
device fingerprint printed by "licensectl fingerprint".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml or $"+config.ConfigFileEnv+")")
	root.PersistentFlags().StringVar(&c.licenseDir, "license-dir", "", "directory holding the license file (overrides configuration)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log workflow details to stderr")

	root.AddCommand(
		c.statusCmd(),
		c.activateCmd(),
		c.removeCmd(),
		c.fingerprintCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.cfgFile != "" {
		cfg, err = config.LoadFrom(c.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if c.licenseDir != "" {
		cfg.License.Dir = c.licenseDir
	}
	c.cfg = cfg

	logCfg := cfg.Logging
	logCfg.Format = "text"
	if !c.verbose {
		logCfg.Level = "warn"
	}
	c.logger = slog.New(infrastructure.NewHandler(cmd.ErrOrStderr(), logCfg))

	// One trace ID per invocation ties together the logs of a command.
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
	return nil
}

func (c *cli) manager() (license.ManagerInterface, error) {
	return c.newManager(c.cfg, c.logger)
}

func newLicenseManager(cfg *config.Config, logger *slog.Logger) (license.ManagerInterface, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	return license.NewManager(
		paths.LicenseFile,
		security.NewFingerprintManager(logger),
		license.WithLogger(logger),
		license.WithLocale(license.ParseLocale(cfg.License.Locale)),
	), nil
}
