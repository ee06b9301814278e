// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func newLogger(c LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}

	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	zc.Level = lvl

	return zc.Build()
}
