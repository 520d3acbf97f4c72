package sqlc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps the counters of one game server. Every query is
// keyed by the server address it was created with.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIp pqtype.Inet) *AnalyticsManager {
	return &AnalyticsManager{queries: queries, serverIp: serverIp}
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	return a.queries.IncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) RecordGameResult(ctx context.Context, humanWon bool) error {
	if humanWon {
		return a.queries.IncrementGamesWonByHuman(ctx, a.serverIp)
	}
	return a.queries.IncrementGamesWonByComputer(ctx, a.serverIp)
}

func (a *AnalyticsManager) AddComputerShotsFired(ctx context.Context, shots int) error {
	if shots <= 0 {
		return nil
	}
	return a.queries.AddComputerShotsFired(ctx, AddComputerShotsFiredParams{
		ServerIp:           a.serverIp,
		ComputerShotsFired: int64(shots),
	})
}

// GetSummary returns zero counters for a server that has not recorded
// anything yet.
func (a *AnalyticsManager) GetSummary(ctx context.Context) (GameServerAnalytic, error) {
	summary, err := a.queries.GetGameServerAnalytics(ctx, a.serverIp)
	if errors.Is(err, sql.ErrNoRows) {
		return GameServerAnalytic{ServerIp: a.serverIp}, nil
	}
	return summary, err
}
