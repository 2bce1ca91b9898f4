package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kpaschen/dgprep/lib/logging"
	"github.com/kpaschen/dgprep/lib/settings"
	"github.com/kpaschen/dgprep/lib/truncate"
)

func main() {
	var config settings.TruncateSettings

	flag.StringVar(&config.ReadPath, "read", "", "The csv file to read")
	flag.StringVar(&config.WritePath, "write", "", "The csv file to write. It is overwritten.")
	flag.IntVar(&config.Rows, "rows", 0, "Number of rows to delete from the end")
	flag.BoolVar(&config.UseCRLF, "crlf", false, "Terminate every written row with \\r\\n, as Python's csv writer does. By default rows keep the line endings they had in the input.")
	flag.StringVar(&config.LogLevel, "log_level", settings.DEFAULT_LOG_LEVEL, "Logging level (debug, info, warn, error)")

	flag.Parse()

	config = config.ComputeSettingsFields()
	logger, err := logging.New(config.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := config.Validate(); err != nil {
		logger.Errorf("invalid settings: %v", err)
		os.Exit(2)
	}

	result, err := truncate.TruncateRows(config.ReadPath, config.WritePath, config.Rows, config.UseCRLF)
	if err != nil {
		logger.Errorf("failed to truncate %s: %v", config.ReadPath, err)
		os.Exit(1)
	}
	logger.Infof("read %d rows from %s, wrote %d rows to %s",
		result.Read, config.ReadPath, result.Written, config.WritePath)
}
