package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetReportTimestamp(true)

	rulesets, err := cfg.NewRulesetRegistry()
	if err != nil {
		log.Fatal("failed to load rulesets", "path", cfg.RulesetsPath, "err", err)
	}

	bsm := mc.NewBattleshipSessionManager(mc.WithGracePeriod(cfg.ReconnectGracePeriod))
	go bsm.CleanupPeriodically()

	bgm := mb.NewBattleshipGameManager(rulesets)

	opts := make([]api.Option, 0, 1)
	if cfg.DatabaseURL != "" {
		psqlDb := db.MustConnectToDb(cfg.DatabaseURL)
		defer psqlDb.Close()

		serverIp := internal.Inet(internal.MustGetServerIpNet())
		dm := sqlc.NewDbManager(sqlc.New(psqlDb), serverIp)
		logAnalyticsSummary(dm.Analytics)
		opts = append(opts, api.WithDbManager(dm))
	} else {
		log.Warn("DATABASE_URL is not set; analytics disabled")
	}

	rp, err := api.NewRequestProcessor(bsm, bgm, opts...)
	if err != nil {
		log.Fatal("failed to create request processor", "err", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	log.Info("listening", "port", cfg.Port, "stage", cfg.Stage, "rulesets", rulesets.Names())
	if err := http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Port), mux); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func logAnalyticsSummary(analytics *sqlc.AnalyticsManager) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	summary, err := analytics.GetSummary(ctx)
	if err != nil {
		log.Warn("could not read analytics", "err", err)
		return
	}
	log.Info("analytics so far",
		"server_ip", summary.ServerIp.IPNet.String(),
		"games_created", summary.GamesCreated,
		"won_by_human", summary.GamesWonByHuman,
		"won_by_computer", summary.GamesWonByComputer,
		"computer_shots", summary.ComputerShotsFired,
	)
}
