package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apikeyUseCase "github.com/allisson/envshare/internal/apikey/usecase"
)

// RunCreateAPIKey generates an API key and prints it. Only its hash is stored, so this is the
// one chance to read the raw key.
func RunCreateAPIKey(
	ctx context.Context,
	useCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	out io.Writer,
	rawFormat string,
) error {
	format, err := parseFormat(rawFormat)
	if err != nil {
		return err
	}

	rawKey, err := useCase.Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	logger.Info("api key created")

	return render(out, format,
		map[string]string{"api_key": rawKey},
		"API key: "+rawKey,
		"Store it now, it cannot be shown again.",
	)
}

// RunRevokeAPIKey removes a previously issued API key.
func RunRevokeAPIKey(
	ctx context.Context,
	useCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
	out io.Writer,
	rawKey string,
) error {
	if err := useCase.Revoke(ctx, rawKey); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	logger.Info("api key revoked")

	return render(out, formatText, nil, "API key revoked")
}
