package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the keystore password is prompted at runtime and stored in memory -
// use GetKeystorePasswordBytes()
type Config struct {
	Port                    string `envconfig:"PORT" default:"8080"`
	EthRPCURL               string `envconfig:"ETH_RPC_URL" required:"true"`
	MultisigAddress         string `envconfig:"MULTISIG_ADDRESS" required:"true"`
	KeystorePath            string `envconfig:"KEYSTORE_PATH" required:"true"`
	ChainID                 int64  `envconfig:"CHAIN_ID" default:"1"`
	DBPath                  string `envconfig:"DB_PATH" default:"multisig.db"`
	InclusionTimeoutSeconds int    `envconfig:"INCLUSION_TIMEOUT_SECONDS" default:"90"`
	StartBlock              uint64 `envconfig:"START_BLOCK" default:"0"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetEthRPCURL returns the Ethereum RPC URL from configuration
func GetEthRPCURL() string {
	return Get().EthRPCURL
}

// GetMultisigAddress returns the multisig contract address from configuration
func GetMultisigAddress() string {
	return Get().MultisigAddress
}

// GetKeystorePath returns path to the keystore JSON file from configuration
func GetKeystorePath() string {
	return Get().KeystorePath
}

// GetDBPath returns path to the metadata sqlite database from configuration
func GetDBPath() string {
	return Get().DBPath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keystore password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter keystore password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetKeystorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeystorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
