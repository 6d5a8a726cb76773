package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewWithFileSink builds a Logger that writes structured JSON both to
// stdout and to a daily-rotated file under dir (spec's pipeline log
// directory); the file is also rotated when it reaches 100 MB. dir == ""
// disables the file sink.
func NewWithFileSink(mode string, dir string) (*Logger, error) {
	base, err := New(mode)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		return base, nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	rotator := &lumberjack.Logger{
		Filename:  dir + "/pipeline.log",
		MaxSize:   100, // MB
		MaxAge:    1,   // days a rotated file is kept
		LocalTime: true,
		Compress:  true,
	}
	go func() {
		for {
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
			time.Sleep(time.Until(midnight))
			_ = rotator.Rotate()
		}
	}()
	fileWriter := zapcore.AddSync(rotator)

	core := zapcore.NewTee(
		base.SugaredLogger.Desugar().Core(),
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, zap.DebugLevel),
	)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, nil
}
