// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	workers    int
	device     bool

	rootCmd = &cobra.Command{
		Use:          "snodebench",
		Short:        "Exercise a sparse node hierarchy",
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the configured workload",
		Args:  cobra.NoArgs,
		RunE:  runWorkload,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the default config as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(DefaultConfig())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file, defaults apply if empty")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "override workload.workers")
	runCmd.Flags().BoolVar(&device, "device", false, "use the device activation path")

	rootCmd.AddCommand(runCmd, configCmd)
}

func runWorkload(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workload.Workers = workers
	}
	if device && cfg.Context.Name == defaultContextName {
		cfg.Context.Name = "device"
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	undo := zap.ReplaceGlobals(log)
	defer undo()

	b := newBench(cfg, log, prometheus.NewRegistry())

	stats, err := b.run(cmd.Context(), device)
	if err != nil {
		log.Error("workload failed", zap.Error(err))
		return err
	}
	b.report(stats)

	return nil
}
