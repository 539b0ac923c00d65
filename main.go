package main

import (
	"log/slog"
	"os"

	"github.com/srprime/attendance/internal/program"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	program.NewMainApp(logger).RunApp()
}
