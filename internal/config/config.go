package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game struct {
		MaxPlayers     int      `yaml:"max_players"`
		QuestionTime   int      `yaml:"question_time"`
		TotalQuestions int      `yaml:"total_questions"`
		Difficulty     string   `yaml:"difficulty"`
		Categories     []string `yaml:"categories"`
		StartDelay     string   `yaml:"start_delay"`
		NextRoundDelay string   `yaml:"next_round_delay"`
		RoundGrace     string   `yaml:"round_grace"`
		IdleTimeout    string   `yaml:"idle_timeout"`
		SweepInterval  string   `yaml:"sweep_interval"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
