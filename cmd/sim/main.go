package main

import (
	"flag"
	"fmt"
	"os"

	"matchcore-go/bot"
	"matchcore-go/exec"
	"matchcore-go/order"
	"matchcore-go/risk"
	"matchcore-go/sim"
)

// 一个本地批量模拟：噪声/动量 bot 提供流动性，可叠加一张 TWAP/VWAP 母单，
// 跑完后打印成交与强平统计。不连接任何外部系统。
func main() {
	ticks := flag.Int("ticks", 500, "number of ticks to simulate")
	seed := flag.Int64("seed", 42, "rng seed (same seed => same replay)")
	mark := flag.Float64("mark", 100, "initial mark price")
	noiseBots := flag.Int("noiseBots", 4, "number of noise traders")
	momoBots := flag.Int("momoBots", 1, "number of momentum traders")
	botSize := flag.Float64("botSize", 1, "bot order size")
	sizeThreshold := flag.Float64("sizeThreshold", 2000, "risk: position value trigger")
	lossThreshold := flag.Float64("lossThreshold", -50, "risk: unrealized loss trigger (negative)")
	parentSize := flag.Float64("parentSize", 0, "exec: parent order size (0 to disable)")
	parentTicks := flag.Int("parentTicks", 100, "exec: parent order duration in ticks")
	parentSide := flag.String("parentSide", "ask", "exec: parent order side (bid|ask)")
	vwap := flag.Bool("vwap", false, "exec: use VWAP profile instead of TWAP")
	flag.Parse()

	r, err := sim.NewRunner(sim.Options{
		Seed:        *seed,
		InitialMark: *mark,
		Thresholds:  risk.Thresholds{SizeThreshold: *sizeThreshold, LossThreshold: *lossThreshold},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *noiseBots; i++ {
		r.RegisterBot(&bot.NoiseTrader{
			Name:      fmt.Sprintf("noise-%d", i+1),
			Size:      *botSize,
			Spread:    0.01,
			TakerProb: 0.25,
		})
	}
	for i := 0; i < *momoBots; i++ {
		r.RegisterBot(&bot.MomentumTrader{
			Name:      fmt.Sprintf("momo-%d", i+1),
			Size:      *botSize,
			RSIPeriod: 14,
			Oversold:  30,
			Overbot:   70,
		})
	}

	if *parentSize > 0 {
		side := order.Ask
		if *parentSide == "bid" {
			side = order.Bid
		}
		strategy := exec.TWAP
		if *vwap {
			strategy = exec.VWAP
		}
		if _, err := r.StartExec(exec.Config{
			Owner: "parent", Side: side, Strategy: strategy,
			TotalSize: *parentSize, DurationTicks: *parentTicks,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "exec: %v\n", err)
			os.Exit(1)
		}
	}

	liquidations := 0
	for i := 0; i < *ticks; i++ {
		rep := r.Tick(0)
		for _, owner := range rep.Liquidated {
			liquidations++
			fmt.Printf("tick %d liquidated %s (mark=%.2f)\n", r.CurrentTick(), owner, rep.MarkPrice)
		}
	}

	trades := r.Book().Trades()
	fmt.Printf("ticks=%d trades=%d liquidations=%d lastPrice=%.2f activeBots=%d\n",
		r.CurrentTick(), len(trades), liquidations, r.Book().LastPrice(), r.ActiveBots())
	snap := r.Book().Snapshot(5)
	fmt.Printf("top bids: %v\n", snap.Bids)
	fmt.Printf("top asks: %v\n", snap.Asks)
}
