package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[2m"
)

var levelColors = map[string]string{
	"trace": "\033[90m",
	"debug": "\033[36m",
	"info":  "\033[32m",
	"warn":  "\033[33m",
	"error": "\033[31m",
	"fatal": "\033[35m",
}

// consoleWriter renders entries as "15:04:05 INF message key=value".
func consoleWriter(out io.Writer, noColor bool) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			lvl, _ := i.(string)
			tag := strings.ToUpper(lvl)
			if len(tag) > 3 {
				tag = tag[:3]
			}
			if noColor {
				return tag
			}
			return levelColors[lvl] + tag + ansiReset
		},
		FormatFieldName: func(i any) string {
			if noColor {
				return fmt.Sprintf("%s=", i)
			}
			return fmt.Sprintf("%s%s=%s", ansiDim, i, ansiReset)
		},
	}
}
