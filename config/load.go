package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"matchcore-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env     string        `yaml:"env"`
	Sim     SimConfig     `yaml:"sim"`
	Risk    RiskConfig    `yaml:"risk"`
	Bots    []BotConfig   `yaml:"bots"`
	Stream  StreamConfig  `yaml:"stream"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     logger.Config `yaml:"log"`
}

// SimConfig 模拟循环参数。
type SimConfig struct {
	Seed              int64   `yaml:"seed"`
	InitialMark       float64 `yaml:"initialMark"`
	Ticks             int     `yaml:"ticks"`             // cmd/sim 跑多少个 tick
	TickIntervalMs    int     `yaml:"tickIntervalMs"`    // cmd/server 的节拍（毫秒）
	SnapshotDepth     int     `yaml:"snapshotDepth"`     // 推送档数，0 为全档
	IndicatorCapacity int     `yaml:"indicatorCapacity"` // 价格环形缓冲容量
}

// RiskConfig 强平阈值。
type RiskConfig struct {
	SizeThreshold float64 `yaml:"sizeThreshold"`
	LossThreshold float64 `yaml:"lossThreshold"`
}

// BotConfig 参与者配置；kind 决定策略。
type BotConfig struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"` // noise | momentum
	Size       float64 `yaml:"size"`
	Spread     float64 `yaml:"spread"`     // noise
	TakerProb  float64 `yaml:"takerProb"`  // noise
	VolWindow  int     `yaml:"volWindow"`  // noise，0 表示不按波动率调宽价差
	RSIPeriod  int     `yaml:"rsiPeriod"`  // momentum
	Oversold   float64 `yaml:"oversold"`   // momentum
	Overbought float64 `yaml:"overbought"` // momentum
}

type StreamConfig struct {
	Addr string `yaml:"addr"` // websocket 监听地址，空则不启用
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // prometheus 监听地址，空则不启用
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides listen addresses from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MC_STREAM_ADDR"); v != "" {
		cfg.Stream.Addr = v
	}
	if v := os.Getenv("MC_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Sim.InitialMark <= 0 {
		return errors.New("sim.initialMark must be > 0")
	}
	if cfg.Sim.Ticks < 0 {
		return errors.New("sim.ticks must be >= 0")
	}
	if cfg.Sim.TickIntervalMs < 0 {
		return errors.New("sim.tickIntervalMs must be >= 0")
	}
	if cfg.Risk.SizeThreshold <= 0 {
		return errors.New("risk.sizeThreshold must be > 0")
	}
	if cfg.Risk.LossThreshold >= 0 {
		return errors.New("risk.lossThreshold must be < 0")
	}
	for _, b := range cfg.Bots {
		if b.Name == "" {
			return errors.New("bot name is required")
		}
		if b.Size <= 0 {
			return fmt.Errorf("bot %s size must be > 0", b.Name)
		}
		switch b.Kind {
		case "noise":
			if b.Spread <= 0 {
				return fmt.Errorf("bot %s spread must be > 0", b.Name)
			}
			if b.TakerProb < 0 || b.TakerProb > 1 {
				return fmt.Errorf("bot %s takerProb must be in [0,1]", b.Name)
			}
		case "momentum":
			if b.RSIPeriod <= 0 {
				return fmt.Errorf("bot %s rsiPeriod must be > 0", b.Name)
			}
			if b.Oversold >= b.Overbought {
				return fmt.Errorf("bot %s oversold must be < overbought", b.Name)
			}
		default:
			return fmt.Errorf("bot %s has unknown kind %q", b.Name, b.Kind)
		}
	}
	return nil
}
