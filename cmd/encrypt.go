package cmd

import (
	"fmt"
	"os"

	"schedule-api/core/crypt"

	"github.com/spf13/cobra"
)

var encryptSecret string

// encryptCmd protects a credential file at rest.
var encryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypt a credential file",
	Long: `Encrypts a credential file (e.g. the FCM server key) with AES-256-CTR
using a key derived from the given secret and writes <file>.enc next to it.
The service decrypts the file at startup with the same secret.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if encryptSecret == "" {
			encryptSecret = os.Getenv("TIMETABLE_FCM_SECRET")
		}
		if encryptSecret == "" {
			return fmt.Errorf("no secret given: use --secret or TIMETABLE_FCM_SECRET")
		}

		path := args[0]
		plain, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		encrypted, err := crypt.Encrypt(encryptSecret, plain)
		if err != nil {
			return err
		}

		out := path + ".enc"
		if err := os.WriteFile(out, encrypted, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("wrote %s (%d bytes)\n", out, len(encrypted))
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&encryptSecret, "secret", "", "encryption secret")
	RootCmd.AddCommand(encryptCmd)
}
