package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

const (
	flagMnemonicLength = "mnemonic-length"
	flagAccount        = "account"
	flagIndex          = "index"
	flagOutput         = "output"
	flagKeyFile        = "key-file"
)

// JudgeKeyFile is the on-disk form of a judge signing key.
type JudgeKeyFile struct {
	Address    string `json:"address"`
	PubKey     string `json:"pub_key"`
	PrivKeyHex string `json:"priv_key"`
}

// PrivKey decodes the private key.
func (f JudgeKeyFile) PrivKey() (*secp256k1.PrivKey, error) {
	bz, err := hex.DecodeString(f.PrivKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(bz) != secp256k1.PrivKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", secp256k1.PrivKeySize, len(bz))
	}
	return &secp256k1.PrivKey{Key: bz}, nil
}

// NewJudgeKeyFile wraps a private key for storage.
func NewJudgeKeyFile(priv *secp256k1.PrivKey) JudgeKeyFile {
	pub := priv.PubKey().Bytes()
	return JudgeKeyFile{
		Address:    types.JudgeAddress(pub).String(),
		PubKey:     hex.EncodeToString(pub),
		PrivKeyHex: hex.EncodeToString(priv.Key),
	}
}

// ReadJudgeKeyFile loads a key written by `keys new`.
func ReadJudgeKeyFile(path string) (*secp256k1.PrivKey, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	var f JudgeKeyFile
	if err := json.Unmarshal(bz, &f); err != nil {
		return nil, fmt.Errorf("failed to decode key file: %w", err)
	}
	return f.PrivKey()
}

// DeriveJudgeKey derives a secp256k1 key from a BIP39 mnemonic on the
// standard cosmos HD path.
func DeriveJudgeKey(mnemonic string, account, index uint32) (*secp256k1.PrivKey, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid bip39 mnemonic")
	}

	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), account, index)
	bz, err := hd.Secp256k1.Derive()(mnemonic, "", hdPath.String())
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return &secp256k1.PrivKey{Key: bz}, nil
}

// KeysCmd groups judge key commands.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage judge signing keys",
	}
	cmd.AddCommand(newKeyCmd(), recoverKeyCmd(), showKeyCmd())
	return cmd
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a judge key with a BIP39 mnemonic",
		Long: `Generate a new judge key. The mnemonic is printed once; keep it safe.

Examples:
  puzzled keys new --output judge.json
  puzzled keys new --mnemonic-length 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonicLength, _ := cmd.Flags().GetInt(flagMnemonicLength)
			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)
			output, _ := cmd.Flags().GetString(flagOutput)

			if mnemonicLength != 12 && mnemonicLength != 24 {
				return fmt.Errorf("mnemonic length must be 12 or 24 words")
			}

			// 12 words = 128 bits, 24 words = 256 bits
			entropy := make([]byte, mnemonicLength/3*4)
			if _, err := rand.Read(entropy); err != nil {
				return fmt.Errorf("failed to generate secure entropy: %w", err)
			}
			mnemonic, err := bip39.NewMnemonic(entropy)
			if err != nil {
				return fmt.Errorf("failed to generate mnemonic: %w", err)
			}

			priv, err := DeriveJudgeKey(mnemonic, account, index)
			if err != nil {
				return err
			}
			if err := emitKey(cmd, NewJudgeKeyFile(priv), output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "\n**IMPORTANT** Write this mnemonic phrase in a safe place.\n\n%s\n\n", mnemonic)
			return nil
		},
	}

	cmd.Flags().Int(flagMnemonicLength, 24, "Mnemonic length (12 or 24 words)")
	addDerivationFlags(cmd)
	return cmd
}

func recoverKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover [mnemonic]",
		Short: "Recover a judge key from its mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, _ := cmd.Flags().GetUint32(flagAccount)
			index, _ := cmd.Flags().GetUint32(flagIndex)
			output, _ := cmd.Flags().GetString(flagOutput)

			priv, err := DeriveJudgeKey(args[0], account, index)
			if err != nil {
				return err
			}
			return emitKey(cmd, NewJudgeKeyFile(priv), output)
		},
	}
	addDerivationFlags(cmd)
	return cmd
}

func showKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the public half of a judge key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString(flagKeyFile)
			priv, err := ReadJudgeKeyFile(path)
			if err != nil {
				return err
			}
			f := NewJudgeKeyFile(priv)
			f.PrivKeyHex = ""
			return printJSON(cmd, f)
		},
	}
	cmd.Flags().String(flagKeyFile, "judge.json", "judge key file")
	return cmd
}

func addDerivationFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32(flagAccount, 0, "Account number for HD derivation")
	cmd.Flags().Uint32(flagIndex, 0, "Address index number for HD derivation")
	cmd.Flags().String(flagOutput, "", "write the key file here instead of stdout")
}

func emitKey(cmd *cobra.Command, f JudgeKeyFile, output string) error {
	if output == "" {
		return printJSON(cmd, f)
	}
	bz, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, bz, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "judge %s written to %s\n", f.Address, output)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
