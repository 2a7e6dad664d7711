package main

import (
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "secp256k1-ecdh"

// cli holds the state shared by the subcommands of a single invocation.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:          appName,
		Short:        "constant-time secp256k1 key agreement",
		Long:         "Compute secp256k1 public keys, ECDH shared secrets and BIP32 extended keys.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = newLogger(cmd.ErrOrStderr(), c.verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging on stderr")

	rootCmd.AddCommand(c.pubKeyCmd())
	rootCmd.AddCommand(c.sharedCmd())
	rootCmd.AddCommand(c.masterCmd())
	rootCmd.AddCommand(c.deriveCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// newLogger returns a console logger writing to w.  Only warnings and errors
// are emitted unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core).Named(appName)
}

// parsePrivKey decodes a hex private key into a fixed size buffer.  Range
// checks are left to the library so they run in constant time.
func parsePrivKey(s string) (*[32]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	defer zero(b)
	if len(b) != 32 {
		return nil, errors.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	var key [32]byte
	copy(key[:], b)
	return &key, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
