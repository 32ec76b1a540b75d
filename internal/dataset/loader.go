package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/olehluchkiv/brandgraph/internal/mention"
)

var (
	// ErrNotFound means the dataset file could not be located or opened.
	ErrNotFound = errors.New("dataset not found")
	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
)

// Column names of the labelled export.
const (
	ColAuthor         = "User_Handle"
	ColContent        = "Tweet_Content"
	ColPostedAt       = "Tweet_DateTime"
	ColCleanText      = "FinalCleaned"
	ColAccountCreated = "Account_Created"
	ColTopic          = "topic"
	ColCommunity      = "community"
	ColMentions       = "mentions"
)

var requiredColumns = []string{ColAuthor, ColContent, ColPostedAt}

// Load reads the CSV dataset at path. Rows whose timestamp cannot be parsed
// are skipped and counted. Brand tags are left empty and mentions are only
// set when the file carries a precomputed mentions column; the enricher
// pipeline fills in the rest.
func Load(ctx context.Context, path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(ctx, f, logger)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ds.Path = path
	logger.Info("dataset loaded", "path", path, "posts", len(ds.Posts), "skipped", ds.Skipped)
	return ds, nil
}

// Read parses CSV content from r.
func Read(ctx context.Context, r io.Reader, logger *slog.Logger) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	field := func(rec []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}

	ds := &Dataset{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed row", "line", line, "error", err)
			ds.Skipped++
			continue
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		raw, _ := field(rec, ColPostedAt)
		postedAt, err := ParseTime(raw)
		if err != nil {
			logger.Warn("skipping row with bad timestamp", "line", line, "value", raw)
			ds.Skipped++
			continue
		}

		p := Post{PostedAt: postedAt, Topic: NoTopic}
		p.Author, _ = field(rec, ColAuthor)
		p.Author = strings.TrimSpace(p.Author)
		p.Content, _ = field(rec, ColContent)
		if clean, ok := field(rec, ColCleanText); ok {
			p.CleanText = clean
		} else {
			p.CleanText = p.Content
		}
		if v, ok := field(rec, ColAccountCreated); ok && strings.TrimSpace(v) != "" {
			if t, err := ParseTime(v); err == nil {
				p.AccountCreated = t
			}
		}
		if v, ok := field(rec, ColTopic); ok {
			if id, ok := parseLabel(v); ok {
				p.Topic = id
			}
		}
		if v, ok := field(rec, ColCommunity); ok {
			if id, ok := parseLabel(v); ok {
				p.Community = &id
			}
		}
		if v, ok := field(rec, ColMentions); ok {
			m, err := mention.Parse(v)
			if err != nil {
				// Left nil so the mentions are extracted from the content.
				logger.Debug("ignoring unreadable mentions cell", "line", line, "error", err)
			} else {
				p.Mentions = m
			}
		}

		ds.Posts = append(ds.Posts, p)
	}

	return ds, nil
}

// ParseTime parses a timestamp in any of the common layouts. Values without a
// zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	return dateparse.ParseIn(s, time.UTC)
}

// parseLabel reads an integer label. Upstream exports write labels of
// nullable columns as floats ("3.0"), and missing values as "" or "nan".
func parseLabel(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
