package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olehluchkiv/brandgraph/internal/dataset"
)

// DefaultFileName is the name of the labelled export searched for when no
// explicit path is configured.
const DefaultFileName = "datos_finales_analisis.csv"

// Resolve takes an input (explicit dataset path, or empty) and returns the
// absolute path of a readable dataset file. An explicit path is used as is;
// an empty input searches the default locations in order.
func Resolve(input string, logger *slog.Logger) (string, error) {
	if input != "" {
		return findFirst([]string{input}, logger)
	}
	return findFirst(defaultLocations(), logger)
}

// defaultLocations lists the search order: ./data, the working directory,
// then ~/.brandgraph.
func defaultLocations() []string {
	locs := []string{
		filepath.Join("data", DefaultFileName),
		DefaultFileName,
	}
	home, err := os.UserHomeDir()
	if err == nil {
		locs = append(locs, filepath.Join(home, ".brandgraph", DefaultFileName))
	}
	return locs
}

func findFirst(candidates []string, logger *slog.Logger) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		absPath, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("resolving path: %w", err)
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			logger.Debug("dataset candidate missing", "path", absPath, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			logger.Debug("dataset candidate is not a regular file", "path", absPath)
			continue
		}

		logger.Info("resolved dataset", "input", c, "path", absPath)
		return absPath, nil
	}
	return "", fmt.Errorf("%w: tried %s", dataset.ErrNotFound, strings.Join(tried, ", "))
}
