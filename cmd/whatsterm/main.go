package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matheus3301/whatsterm/internal/app"
	"github.com/matheus3301/whatsterm/internal/config"
	"github.com/matheus3301/whatsterm/internal/lock"
	"github.com/matheus3301/whatsterm/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	sessionFlag string
	configFlag  string
	phoneFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "whatsterm",
	Short: "WhatsApp in the terminal",
	Long: `whatsterm is a terminal WhatsApp client. It links as a companion device,
keeps chats and messages in a local database and shows inline image previews.`,
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&sessionFlag, "session", "", "session name (overrides config default)")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "config file (default ~/.whatsterm/config.toml)")
	rootCmd.Flags().StringVar(&phoneFlag, "phone", "", "link with a pairing code for this phone number instead of a QR scan")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	path := configFlag
	if path == "" {
		path = session.ConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}

	sessionName := session.Resolve(sessionFlag, cfg)
	if err := session.ValidateName(sessionName); err != nil {
		return err
	}

	fxApp := fx.New(
		app.Module(app.Params{SessionName: sessionName, Phone: phoneFlag, Config: cfg}),
		app.WithLogger(),
	)
	if err := fxApp.Err(); err != nil {
		return explain(err)
	}

	ctx := cmd.Context()
	startCtx, cancel := context.WithTimeout(ctx, fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return explain(err)
	}

	sig := <-fxApp.Wait()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer cancelStop()
	if err := fxApp.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("exited with code %d, see %s", sig.ExitCode, session.LogPath(sessionName))
	}
	return nil
}

// explain strips fx's constructor trace from errors users can act on.
func explain(err error) error {
	var held *lock.HeldError
	if errors.As(err, &held) {
		return held
	}
	return err
}
