package evidence

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"encoding/json"
	"fmt"
	"io"
)

// ArchiveInputs bundles everything that may go into an audit pack archive.
// ChangeSpec, Provenance, and Events are always present; the rest are
// included only when available.
type ArchiveInputs struct {
	ChangeSpec      json.RawMessage
	Provenance      ProvenanceGraph
	Events          []Event
	Diffs           json.RawMessage
	TestResults     json.RawMessage
	MutationReport  json.RawMessage
	ApprovalRecords json.RawMessage
	FinOpsSummary   json.RawMessage
	Versions        VersionsBlock
	Signature       string // reserved, empty in v1
}

// BuildArchive assembles a single portable ZIP archive containing the
// submitted ChangeSpec JSON, the provenance graph JSON, the raw event list
// JSON, any aggregated evidence available, and a versions block. Uses
// deflate at the maximum compression level.
func BuildArchive(in ArchiveInputs) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	if err := writeJSONEntry(w, "changespec.json", in.ChangeSpec); err != nil {
		return nil, err
	}
	provenanceJSON, err := json.MarshalIndent(in.Provenance, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal provenance graph: %w", err)
	}
	if err := writeJSONEntry(w, "provenance.json", provenanceJSON); err != nil {
		return nil, err
	}
	eventsJSON, err := json.MarshalIndent(in.Events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal events: %w", err)
	}
	if err := writeJSONEntry(w, "events.json", eventsJSON); err != nil {
		return nil, err
	}

	if len(in.Diffs) > 0 {
		if err := writeJSONEntry(w, "diffs.json", in.Diffs); err != nil {
			return nil, err
		}
	}
	if len(in.TestResults) > 0 {
		if err := writeJSONEntry(w, "test_results.json", in.TestResults); err != nil {
			return nil, err
		}
	}
	if len(in.MutationReport) > 0 {
		if err := writeJSONEntry(w, "mutation_report.json", in.MutationReport); err != nil {
			return nil, err
		}
	}
	if len(in.ApprovalRecords) > 0 {
		if err := writeJSONEntry(w, "approvals.json", in.ApprovalRecords); err != nil {
			return nil, err
		}
	}
	if len(in.FinOpsSummary) > 0 {
		if err := writeJSONEntry(w, "finops_summary.json", in.FinOpsSummary); err != nil {
			return nil, err
		}
	}

	versions := struct {
		Versions  VersionsBlock `json:"versions"`
		Signature string        `json:"signature,omitempty"`
	}{Versions: in.Versions, Signature: in.Signature}
	versionsJSON, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal versions block: %w", err)
	}
	if err := writeJSONEntry(w, "versions.json", versionsJSON); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSONEntry(w *zip.Writer, name string, data []byte) error {
	f, err := w.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}
