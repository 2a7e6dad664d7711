package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	secp256k1 "github.com/ModChain/secp256k1-ecdh"
)

func (c *cli) pubKeyCmd() *cobra.Command {
	var uncompressed bool
	cmd := &cobra.Command{
		Use:   "pubkey <private-key-hex>",
		Short: "print the public key for a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parsePrivKey(args[0])
			if err != nil {
				return err
			}
			defer zero(key[:])

			s, ok := secp256k1.ParsePrivateScalar(key)
			if !ok {
				return errors.Wrap(secp256k1.ErrInvalidScalar, "parse private key")
			}
			priv := secp256k1.NewPrivateKey(&s)
			s.Zero()
			defer priv.Zero()

			pub := priv.PubKey()
			out := pub.SerializeCompressed()
			if uncompressed {
				out = pub.SerializeUncompressed()
			}
			c.logger.Debug("derived public key", zap.Int("len", len(out)))
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&uncompressed, "uncompressed", "u", false, "print the 65-byte uncompressed encoding")
	return cmd
}
