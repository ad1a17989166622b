package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vaultUseCase "github.com/allisson/envshare/internal/vault/usecase"
)

// RunSweepExpired deletes every secret whose expiry has passed and reports the count.
func RunSweepExpired(
	ctx context.Context,
	useCase vaultUseCase.VaultUseCase,
	logger *slog.Logger,
	out io.Writer,
	rawFormat string,
) error {
	format, err := parseFormat(rawFormat)
	if err != nil {
		return err
	}

	count, err := useCase.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep expired secrets: %w", err)
	}
	logger.Info("sweep completed", slog.Int64("count", count))

	return render(out, format,
		map[string]int64{"count": count},
		fmt.Sprintf("Successfully deleted %d expired secret(s)", count),
	)
}
