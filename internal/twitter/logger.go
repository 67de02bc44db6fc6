// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package twitter

import (
	"fmt"

	"github.com/apex/log"
)

// leveledLogger routes retryablehttp's messages through apex/log.
type leveledLogger struct{}

func fields(kv []any) log.Fields {
	f := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}

func (leveledLogger) Error(msg string, kv ...any) { log.WithFields(fields(kv)).Error(msg) }
func (leveledLogger) Info(msg string, kv ...any)  { log.WithFields(fields(kv)).Debug(msg) }
func (leveledLogger) Debug(msg string, kv ...any) { log.WithFields(fields(kv)).Debug(msg) }
func (leveledLogger) Warn(msg string, kv ...any)  { log.WithFields(fields(kv)).Warn(msg) }
