package relays

import (
	"io"
	"os"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/rs/zerolog"
)

type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// LogConfig holds logging configuration for ZerologRelay.
type LogConfig struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// ZerologRelay writes relay events as structured zerolog entries.
type ZerologRelay struct {
	logger zerolog.Logger
}

func NewZerologRelay(cfg LogConfig) *ZerologRelay {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.JSONOutput {
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	}

	return &ZerologRelay{logger: logger.Level(level).With().Timestamp().Logger()}
}

func (r *ZerologRelay) Debug(data relayDTO.RelayEventInterface) { r.emit(zerolog.DebugLevel, data) }
func (r *ZerologRelay) Info(data relayDTO.RelayEventInterface)  { r.emit(zerolog.InfoLevel, data) }
func (r *ZerologRelay) Warn(data relayDTO.RelayEventInterface)  { r.emit(zerolog.WarnLevel, data) }
func (r *ZerologRelay) Error(data relayDTO.RelayEventInterface) { r.emit(zerolog.ErrorLevel, data) }

// Fatal is logged at fatal level without terminating the process.
func (r *ZerologRelay) Fatal(data relayDTO.RelayEventInterface) { r.emit(zerolog.FatalLevel, data) }
func (r *ZerologRelay) Meta(data relayDTO.RelayEventInterface)  { r.emit(zerolog.TraceLevel, data) }

func (r *ZerologRelay) emit(level zerolog.Level, data relayDTO.RelayEventInterface) {
	if data == nil {
		return
	}
	// WithLevel never exits or panics, unlike Fatal()/Panic().
	ev := r.logger.WithLevel(level)
	if ev == nil {
		return
	}
	ev = ev.Str("channel", string(data.RelayChannel())).
		Str("type", string(data.RelayType()))
	for _, attr := range data.ToSlog() {
		ev = ev.Interface(attr.Key, attr.Value.Any())
	}
	ev.Msg(data.Message())
}
