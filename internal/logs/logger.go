package logs

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDirName  = "git-me"
	logFileName = "git-me.log"
)

var (
	flags = log.Ldate | log.Ltime | log.Lmicroseconds

	// Until InitLogger runs (tests, early failures) everything goes nowhere.
	loggerDebug = log.New(io.Discard, "[DEBUG] ", flags)
	loggerInfo  = log.New(io.Discard, "[INFO ] ", flags)
	loggerWarn  = log.New(io.Discard, "[WARN ] ", flags)
	loggerError = log.New(io.Discard, "[ERROR] ", flags)

	logLevel = "INFO"
	verbose  = false
	logFile  *os.File
)

// SetVerbose enables or disables mirroring of log lines to the terminal.
func SetVerbose(v bool) {
	verbose = v
}

// Dir returns the directory holding the log file.
func Dir() (string, error) {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appDirName, "logs"), nil
}

// InitLogger opens the log file in the config directory. Lines only reach
// stdout/stderr when verbose mode is on.
func InitLogger() error {
	logDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	Close()
	logFile, err = os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	var out, errOut io.Writer = logFile, logFile
	if verbose {
		out = io.MultiWriter(logFile, os.Stdout)
		errOut = io.MultiWriter(logFile, os.Stderr)
	}

	loggerDebug = log.New(out, "[DEBUG] ", flags)
	loggerInfo = log.New(out, "[INFO ] ", flags)
	loggerWarn = log.New(out, "[WARN ] ", flags)
	loggerError = log.New(errOut, "[ERROR] ", flags)

	if lvl := os.Getenv("GITME_LOG_LEVEL"); lvl != "" {
		logLevel = strings.ToUpper(lvl)
	}
	Debug("Logger initialized. Level=%s, Verbose=%v", logLevel, verbose)
	return nil
}

func Debug(format string, v ...interface{}) {
	if logLevel == "DEBUG" {
		loggerDebug.Output(2, callerInfo()+fmt.Sprintf(format, v...))
	}
}

func Info(format string, v ...interface{}) {
	if logLevel == "DEBUG" || logLevel == "INFO" {
		loggerInfo.Output(2, callerInfo()+fmt.Sprintf(format, v...))
	}
}

func Warn(format string, v ...interface{}) {
	if logLevel != "ERROR" {
		loggerWarn.Output(2, callerInfo()+fmt.Sprintf(format, v...))
	}
}

func Error(format string, v ...interface{}) {
	loggerError.Output(2, callerInfo()+fmt.Sprintf(format, v...))
}

// callerInfo names the function that called Debug/Info/Warn/Error.
func callerInfo() string {
	pc, _, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
	}
	return fmt.Sprintf("[%s:%d] ", name, line)
}

// Close closes the log file.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
