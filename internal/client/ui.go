// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// formatter applies semantic formatting to text.
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func (f formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// noColor honours NO_COLOR and fatih/color's own terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	uiSuccess = formatter{color: color.New(color.FgGreen)}
	uiError   = formatter{color: color.New(color.FgRed)}
	uiInfo    = formatter{color: color.New(color.FgCyan)}
	uiMuted   = formatter{color: color.New(color.FgHiBlack)}
	uiTitle   = formatter{color: color.New(color.Bold)}
	uiCode    = formatter{color: color.New(color.FgYellow), prefix: "`", suffix: "`"}
)

const (
	markSuccess = "✓"
	markError   = "✗"
	markInfo    = "→"
)
