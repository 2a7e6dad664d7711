package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ModChain/secp256k1-ecdh/ecckd"
)

func (c *cli) masterCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "master <seed-hex>",
		Short: "print the BIP32 master key for a seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrap(err, "decode seed")
			}
			defer zero(seed)

			key, err := ecckd.FromBitcoinSeed(seed)
			if err != nil {
				return errors.Wrap(err, "create master key")
			}
			defer key.Zero()
			return c.printKey(cmd, key, public)
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "print the extended public key")
	return cmd
}

func (c *cli) deriveCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "derive <extended-key> <path>",
		Short: "derive a BIP32 child key such as m/0'/1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := ecckd.FromString(args[0])
			if err != nil {
				return errors.Wrap(err, "parse extended key")
			}
			defer parent.Zero()

			child, err := parent.DerivePath(args[1])
			if err != nil {
				return errors.Wrapf(err, "derive %s", args[1])
			}
			defer child.Zero()

			c.logger.Debug("derived child key", zap.String("path", args[1]),
				zap.Uint8("depth", child.Depth), zap.Bool("private", child.IsPrivate()))
			return c.printKey(cmd, child, public)
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "print the extended public key")
	return cmd
}

func (c *cli) printKey(cmd *cobra.Command, key *ecckd.ExtendedKey, public bool) error {
	if public {
		pub, err := key.Public()
		if err != nil {
			return errors.Wrap(err, "convert to public key")
		}
		key = pub
	}
	fmt.Fprintln(cmd.OutOrStdout(), key.String())
	return nil
}
