// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{
		Writer: &buf,
		now:    func() time.Time { return time.Date(2019, 10, 19, 8, 30, 0, 0, time.UTC) },
	}

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithField("id", 42).WithError(errors.New("boom")).Warn("failed to fetch")
	logger.Debug("plain")

	assert.Equal(t,
		"2019-10-19 08:30:00 W failed to fetch error=boom id=42\n"+
			"2019-10-19 08:30:00 D plain\n",
		buf.String())
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{env: "", want: log.ErrorLevel},
		{env: "debug", want: log.DebugLevel},
		{env: "WARN", want: log.WarnLevel},
		{env: "chatty", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("CONFDOC_LOG", tt.env)
			InitLogger()

			logger, ok := log.Log.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.want, logger.Level)
			assert.IsType(t, &CustomHandler{}, logger.Handler)
		})
	}
}
