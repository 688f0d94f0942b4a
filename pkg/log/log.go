package log

import (
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/v2rayA/beego/v2/core/logs"
)

// InitLog configures the process-wide logger. logWay is "console" or "file".
func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool) {
	switch logWay {
	case "file":
		conf, _ := jsoniter.MarshalToString(map[string]interface{}{
			"filename": logFile,
			"maxdays":  maxDays,
			"daily":    true,
		})
		_ = logs.SetLogger(logs.AdapterFile, conf)
	default:
		conf, _ := jsoniter.MarshalToString(map[string]interface{}{
			"color": !disableColor,
		})
		_ = logs.SetLogger(logs.AdapterConsole, conf)
	}
	logs.SetLevel(parseLevel(logLevel))
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return logs.LevelDebug
	case "info":
		return logs.LevelInformational
	case "warn", "warning":
		return logs.LevelWarning
	case "error":
		return logs.LevelError
	default:
		return logs.LevelInformational
	}
}

func Trace(format string, v ...interface{}) {
	logs.Trace(format, v...)
}

func Debug(format string, v ...interface{}) {
	logs.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	logs.Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	logs.Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	logs.Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	logs.Critical(format, v...)
	logs.GetBeeLogger().Flush()
	os.Exit(1)
}
