package cli

import "github.com/barnwall/hbmon/internal/config"

func configLog(level, file string) config.LogConfig {
	return config.LogConfig{Level: level, File: file}
}
