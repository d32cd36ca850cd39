package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"matchcore-go/bot"
	"matchcore-go/config"
	"matchcore-go/infrastructure/logger"
	"matchcore-go/metrics"
	"matchcore-go/risk"
	"matchcore-go/sim"
	"matchcore-go/stream"
)

// 长驻模式：按固定节拍推进模拟，websocket 推送快照/成交，
// prometheus 暴露指标，配置文件热更新风控阈值。
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to yaml config")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	pub := stream.NewPublisher()
	r, err := sim.NewRunner(sim.Options{
		Seed:          cfg.Sim.Seed,
		InitialMark:   cfg.Sim.InitialMark,
		IndicatorCap:  cfg.Sim.IndicatorCapacity,
		Thresholds:    risk.Thresholds{SizeThreshold: cfg.Risk.SizeThreshold, LossThreshold: cfg.Risk.LossThreshold},
		Logger:        log.Logger,
		Publisher:     pub,
		SnapshotDepth: cfg.Sim.SnapshotDepth,
	})
	if err != nil {
		log.Error("runner init failed", zap.Error(err))
		os.Exit(1)
	}
	registerBots(r, cfg.Bots)

	if cfg.Metrics.Addr != "" {
		metrics.StartMetricsServer(cfg.Metrics.Addr)
		log.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
	}
	if cfg.Stream.Addr != "" {
		ws := stream.NewServer(pub, log.Logger)
		mux := http.NewServeMux()
		mux.Handle("/ws", ws)
		go func() {
			if err := http.ListenAndServe(cfg.Stream.Addr, mux); err != nil {
				log.Error("stream server stopped", zap.Error(err))
			}
		}()
		log.Info("stream listening", zap.String("addr", cfg.Stream.Addr))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 配置热更新：只动风控阈值，其余字段需要重启
	go func() {
		w := config.Watcher{Path: *cfgPath}
		_ = w.Start(ctx, func(next config.AppConfig) {
			th := risk.Thresholds{
				SizeThreshold: next.Risk.SizeThreshold,
				LossThreshold: next.Risk.LossThreshold,
			}
			if err := r.Risk().SetThresholds(th); err != nil {
				log.Warn("threshold reload rejected", zap.Error(err))
				return
			}
			log.Info("risk thresholds reloaded",
				zap.Float64("size", th.SizeThreshold),
				zap.Float64("loss", th.LossThreshold),
			)
		})
	}()

	interval := time.Duration(cfg.Sim.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	log.Info("simulator running",
		zap.String("env", cfg.Env),
		zap.Duration("tick_interval", interval),
		zap.Int("bots", len(cfg.Bots)),
	)

	for {
		select {
		case <-ticker.C:
			rep := r.Tick(0)
			for _, owner := range rep.Liquidated {
				log.LogRisk("liquidation", zap.String("owner", owner), zap.Float64("mark", rep.MarkPrice))
			}
		case sig := <-sigCh:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			log.Info("shutting down", zap.String("signal", sig.String()),
				zap.Int("ticks", r.CurrentTick()),
				zap.Uint64("liquidations", r.Risk().LiquidationCount()),
			)
			return
		}
	}
}

func registerBots(r *sim.Runner, cfgs []config.BotConfig) {
	for _, c := range cfgs {
		switch c.Kind {
		case "noise":
			r.RegisterBot(&bot.NoiseTrader{Name: c.Name, Size: c.Size, Spread: c.Spread, TakerProb: c.TakerProb, VolWindow: c.VolWindow})
		case "momentum":
			r.RegisterBot(&bot.MomentumTrader{Name: c.Name, Size: c.Size, RSIPeriod: c.RSIPeriod, Oversold: c.Oversold, Overbot: c.Overbought})
		}
	}
}
