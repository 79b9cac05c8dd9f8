// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parcel-land/parcel-api/internal/auth"
)

var (
	privateKeyOut string
	publicKeyOut  string
	overwriteKeys bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the ES256 key pair used to sign session tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !overwriteKeys {
			for _, path := range []string{privateKeyOut, publicKeyOut} {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s exists, pass --force to replace it", path)
				}
			}
		}

		for _, path := range []string{privateKeyOut, publicKeyOut} {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("create key directory: %w", err)
			}
		}

		if err := auth.GenerateKeyPair(privateKeyOut, publicKeyOut); err != nil {
			return err
		}

		cmd.Printf("wrote %s and %s\n", privateKeyOut, publicKeyOut)
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&privateKeyOut, "private", "keys/private.pem", "private key output path")
	keygenCmd.Flags().StringVar(&publicKeyOut, "public", "keys/public.pem", "public key output path")
	keygenCmd.Flags().BoolVar(&overwriteKeys, "force", false, "overwrite existing keys")
}
