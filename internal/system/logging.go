package system

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger installs a console logger on stderr at the given level.
// Unknown levels fall back to info.
func SetupLogger(level string) {
	SetupLoggerTo(os.Stderr, level)
}

func SetupLoggerTo(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}).
		With().Timestamp().Logger()
}
