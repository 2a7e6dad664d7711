package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	secp256k1 "github.com/ModChain/secp256k1-ecdh"
)

const (
	hashSHA256   = "sha256"
	hashXOnly    = "xonly"
	hashBlake256 = "blake256"
	hashHKDF     = "hkdf"
)

// hashOptions selects the hash step applied to the shared point.
type hashOptions struct {
	name   string
	salt   string
	info   string
	data   string
	outLen int
}

func (o *hashOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hash", pflag.ContinueOnError)
	fs.StringVar(&o.name, "hash", hashSHA256, "hash step: sha256, xonly, blake256 or hkdf")
	fs.StringVar(&o.salt, "salt", "", "hkdf salt")
	fs.StringVar(&o.info, "info", "", "hkdf info")
	fs.StringVar(&o.data, "data", "", "extra data bound into the hkdf info")
	fs.IntVar(&o.outLen, "out-len", 32, "hkdf output length in bytes")
	return fs
}

// hashFunc returns the selected hash step and the output length it produces.
func (o *hashOptions) hashFunc() (secp256k1.HashFunc, int, error) {
	switch o.name {
	case hashSHA256:
		return secp256k1.SHA256Hash, 32, nil
	case hashXOnly:
		return secp256k1.XOnlyHash, 32, nil
	case hashBlake256:
		return secp256k1.Blake256Hash, 32, nil
	case hashHKDF:
		if o.outLen < 1 || o.outLen > 255*32 {
			return nil, 0, errors.Errorf("hkdf output length %d out of range [1, %d]", o.outLen, 255*32)
		}
		return &secp256k1.HKDFHash{Salt: []byte(o.salt), Info: []byte(o.info)}, o.outLen, nil
	}
	return nil, 0, errors.Errorf("unknown hash %q", o.name)
}

func (c *cli) sharedCmd() *cobra.Command {
	opts := &hashOptions{}
	cmd := &cobra.Command{
		Use:   "shared <private-key-hex> <public-key-hex>",
		Short: "compute an ECDH shared secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, outLen, err := opts.hashFunc()
			if err != nil {
				return err
			}
			if opts.name != hashHKDF && cmd.Flags().Changed("out-len") {
				return errors.Errorf("--out-len requires --hash %s", hashHKDF)
			}

			key, err := parsePrivKey(args[0])
			if err != nil {
				return err
			}
			defer zero(key[:])

			pubBytes, err := hex.DecodeString(args[1])
			if err != nil {
				return errors.Wrap(err, "decode public key")
			}
			pub, err := secp256k1.ParsePubKey(pubBytes)
			if err != nil {
				return errors.Wrap(err, "parse public key")
			}

			var data any
			if opts.data != "" {
				data = []byte(opts.data)
			}
			secret := make([]byte, outLen)
			defer zero(secret)
			if err := secp256k1.DefaultContext().SharedSecret(secret, pub, key, hash, data); err != nil {
				c.logger.Warn("shared secret failed", zap.String("hash", opts.name), zap.Error(err))
				return errors.Wrap(err, "compute shared secret")
			}

			c.logger.Debug("computed shared secret", zap.String("hash", opts.name), zap.Int("len", outLen))
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return nil
		},
	}
	cmd.Flags().AddFlagSet(opts.flagSet())
	return cmd
}
