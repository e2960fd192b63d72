// Copyright (c) 2026 The OpenFi Ledger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)

	l := NewLogger(NewTerminalHandler(&buf, &lvl, false))
	l.Info("transfer applied", "amount", 100)
	l.Debug("suppressed", "k", "v")

	out := buf.String()
	assert.True(t, strings.Contains(out, "transfer applied"))
	assert.True(t, strings.Contains(out, "amount=100"))
	assert.False(t, strings.Contains(out, "suppressed"))
}

func TestWithContextFollowsRoot(t *testing.T) {
	bound := WithContext("pkg", "test")

	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelDebug)
	SetDefault(NewLogger(NewTerminalHandler(&buf, &lvl, false)))
	defer SetDefault(NewLogger(DiscardHandler()))

	// bound before SetDefault, still routed to the new root
	bound.Debug("hello", "k", "v")
	out := buf.String()
	assert.True(t, strings.Contains(out, "hello"))
	assert.True(t, strings.Contains(out, "pkg=test"))
	assert.True(t, strings.Contains(out, "k=v"))
}

func TestEnabled(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	l := NewLogger(NewTerminalHandler(&bytes.Buffer{}, &lvl, false))
	assert.True(t, l.Enabled(slog.LevelError))
	assert.False(t, l.Enabled(slog.LevelInfo))
}
