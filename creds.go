package kzseed

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/kiltia/kzseed/config"

	"go.uber.org/zap"
)

// loadCreds reads the base64 encoded <BACKEND>_USER and <BACKEND>_PASSWORD
// environment variables.
func loadCreds(backend config.Backend) (*config.DatabaseCredentials, error) {
	userEnv := fmt.Sprintf("%s_USER", strings.ToUpper(backend))
	passwordEnv := fmt.Sprintf("%s_PASSWORD", strings.ToUpper(backend))
	zap.S().Debugw(
		"loading credentials",
		"user_env", userEnv,
		"password_env", passwordEnv,
	)

	user, err := base64.StdEncoding.DecodeString(os.Getenv(userEnv))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", userEnv, err)
	}
	password, err := base64.StdEncoding.DecodeString(os.Getenv(passwordEnv))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", passwordEnv, err)
	}
	return &config.DatabaseCredentials{
		Username: string(user),
		Password: string(password),
	}, nil
}
