package main

import (
	"github.com/spf13/viper"
)

// Config holds every recognized option from spec §6/§10.3. Everything is
// constructed in code from these values; there is no separate config
// object passed to the core itself.
type Config struct {
	MapSize int

	MinPackets int // delete/splice lower bound
	MaxPackets int // duplicate upper bound

	ObserverName string

	GraphvizPath     string
	GraphvizInterval int // seconds; 0 writes on every graph update (an empty GraphvizPath disables dumps)

	Protocol string // "ftp" or "opaquebytes"
	Target   []string

	RegenerateEvery int
	MetricsAddr     string
}

// loadConfig reads bound cobra flags back out of viper, following the
// same StringVar/viper.BindPFlag pairing whitaker-io-machine's cmd/cmd
// package uses for its own root command.
func loadConfig() Config {
	return Config{
		MapSize:          viper.GetInt("map-size"),
		MinPackets:       viper.GetInt("min-packets"),
		MaxPackets:       viper.GetInt("max-packets"),
		ObserverName:     viper.GetString("observer-name"),
		GraphvizPath:     viper.GetString("graphviz-path"),
		GraphvizInterval: viper.GetInt("graphviz-interval"),
		Protocol:         viper.GetString("protocol"),
		Target:           viper.GetStringSlice("target"),
		RegenerateEvery:  viper.GetInt("regenerate-every"),
		MetricsAddr:      viper.GetString("metrics-addr"),
	}
}
