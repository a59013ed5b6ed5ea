package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/beevik/etree"
	"github.com/emersion/go-ical"
	"github.com/spf13/cobra"

	"github.com/cyp0633/icalexpand/recurrence"
)

func runExpand(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	format, _ := cmd.Flags().GetString("format")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	event, start, err := loadEvent(args[0])
	if err != nil {
		return err
	}

	cur, fresh, err := openCursor(event, start, snapshotPath, logger)
	if err != nil {
		return err
	}

	var occurrences []time.Time
	// Recurring cursors deliver the anchor out of band.
	if fresh && cur.Recurring() {
		occurrences = append(occurrences, start)
	}
	for len(occurrences) < count {
		t, err := cur.Next()
		if errors.Is(err, recurrence.ErrExhausted) {
			break
		}
		if err != nil {
			return err
		}
		occurrences = append(occurrences, t)
	}

	if err := render(cur, occurrences, format); err != nil {
		return err
	}

	if snapshotPath != "" {
		if err := saveSnapshot(cur, snapshotPath); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", snapshotPath, "cursor", cur.ID())
	}
	return nil
}

// loadEvent decodes the calendar file and returns its first VEVENT together
// with the event's DTSTART instant.
func loadEvent(path string) (*ical.Component, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	cal, err := ical.NewDecoder(f).Decode()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, child := range cal.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		start, err := child.Props.DateTime(ical.PropDateTimeStart, nil)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("read DTSTART: %w", err)
		}
		return child, start, nil
	}
	return nil, time.Time{}, fmt.Errorf("%s contains no VEVENT", path)
}

// openCursor resumes from the snapshot file when one exists, otherwise it
// builds a fresh cursor from the event.
func openCursor(event *ical.Component, start time.Time, snapshotPath string, logger *slog.Logger) (*recurrence.Cursor, bool, error) {
	if snapshotPath != "" {
		data, err := os.ReadFile(snapshotPath)
		switch {
		case err == nil:
			var snap recurrence.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return nil, false, fmt.Errorf("read snapshot %s: %w", snapshotPath, err)
			}
			cur, err := recurrence.Resume(snap, recurrence.WithLogger(logger))
			if err != nil {
				return nil, false, err
			}
			return cur, false, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, false, err
		}
	}

	cur, err := recurrence.New(event, start, recurrence.WithLogger(logger))
	if err != nil {
		return nil, false, err
	}
	return cur, true, nil
}

func saveSnapshot(cur *recurrence.Cursor, path string) error {
	snap, err := cur.Snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func render(cur *recurrence.Cursor, occurrences []time.Time, format string) error {
	switch format {
	case "text":
		for _, t := range occurrences {
			fmt.Println(t.Format(time.RFC3339))
		}
		return nil
	case "json":
		out := struct {
			Cursor      string      `json:"cursor"`
			Done        bool        `json:"done"`
			Occurrences []time.Time `json:"occurrences"`
		}{
			Cursor:      cur.ID().String(),
			Done:        cur.Done(),
			Occurrences: occurrences,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case "xml":
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement("occurrences")
		root.CreateAttr("cursor", cur.ID().String())
		root.CreateAttr("done", fmt.Sprintf("%t", cur.Done()))
		for _, t := range occurrences {
			root.CreateElement("instant").SetText(t.Format(time.RFC3339))
		}
		doc.Indent(2)
		_, err := doc.WriteTo(os.Stdout)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or xml)", format)
	}
}
