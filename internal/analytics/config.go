package analytics

import (
	"os"

	"gopkg.in/yaml.v3"

	"campusmarket/internal/app"
)

type Config struct {
	CfgDB        app.ConfigDB    `yaml:"db"`
	CfgKafka     app.ConfigKafka `yaml:"kafka"`
	GroupID      string          `yaml:"group_id"`
	ServerPort   string          `yaml:"srv_port"`
	MaxOpenConns int             `yaml:"max_open_conns"`
}

func NewConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
