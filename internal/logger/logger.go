package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"trading-journal-go/internal/models"
)

// NewLogger creates the application logger. Format "json" selects the production
// encoder; anything else gets the human-readable development console.
func NewLogger(level string, format string) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{"app": "trading-journal"}

	return cfg.Build()
}

// Trade renders the identifying fields of a trade as a nested log object.
func Trade(t models.Trade) zap.Field {
	return zap.Object("trade", tradeObject(t))
}

// Payout renders a payout record as a nested log object.
func Payout(p models.PayoutRecord) zap.Field {
	return zap.Object("payout", payoutObject(p))
}

type tradeObject models.Trade

func (t tradeObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", t.ID)
	enc.AddString("date", t.Date)
	enc.AddString("pair", t.Pair)
	enc.AddString("type", string(t.Type))
	enc.AddFloat64("pnl", t.PnL)
	if t.Fee != 0 {
		enc.AddFloat64("fee", t.Fee)
	}
	if t.Strategy != "" {
		enc.AddString("strategy", t.Strategy)
	}
	return nil
}

type payoutObject models.PayoutRecord

func (p payoutObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", p.ID)
	enc.AddFloat64("amount", p.Amount)
	enc.AddTime("date", p.Date)
	return nil
}
