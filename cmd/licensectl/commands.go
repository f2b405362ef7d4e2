package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/app"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/config"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

func (c *cli) statusCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current license status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.manager()
			if err != nil {
				return err
			}
			status := m.GetStatus(cmd.Context())
			if err := printStatus(cmd.OutOrStdout(), status, jsonOut); err != nil {
				return err
			}
			return exitFor(status, domain.LicenseStateActive)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the status as JSON")
	return cmd
}

func (c *cli) activateCmd() *cobra.Command {
	var (
		jsonOut bool
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "activate <file|->",
		Short: "Verify a license file and install it on this device",
		Long: `Verify a license file and install it on this device. Use "-" to read the
license text from standard input. With --dry-run the license is evaluated
but nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.readLicenseText(args[0])
			if err != nil {
				return err
			}
			m, err := c.manager()
			if err != nil {
				return err
			}
			status := m.ActivateFromText(cmd.Context(), text, license.ActivateOptions{DryRun: dryRun})
			if err := printStatus(cmd.OutOrStdout(), status, jsonOut); err != nil {
				return err
			}
			return exitFor(status, domain.LicenseStateActive)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the resulting status as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate the license without installing it")
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the installed license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.manager()
			if err != nil {
				return err
			}
			status := m.Remove(cmd.Context())
			if err := printStatus(cmd.OutOrStdout(), status, jsonOut); err != nil {
				return err
			}
			return exitFor(status, domain.LicenseStateNoLicense)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the resulting status as JSON")
	return cmd
}

func (c *cli) fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of this device for license issuance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.manager()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.DeviceFingerprint(cmd.Context()))
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd, c.cfg)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString("licensectl"))
			return nil
		},
	}
}

// readLicenseText reads the license from a file, or from stdin for "-".
func (c *cli) readLicenseText(arg string) (string, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(io.LimitReader(c.stdin, license.MaxLicenseSize+1))
	} else {
		data, err = readLimited(arg, license.MaxLicenseSize+1)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read license: %w", err)
	}
	// Oversized text is passed through so the workflow reports CORRUPT.
	return string(data), nil
}

func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

func exitFor(status domain.LicenseStatus, want domain.LicenseState) error {
	if status.Status == want {
		return nil
	}
	return &exitError{code: exitInactive, status: status.Status}
}

func serveApplication(cmd *cobra.Command, cfg *config.Config) error {
	application, err := app.New(cfg, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Serve(ctx)
}
