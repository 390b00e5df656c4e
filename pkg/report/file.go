package report

import (
	"bytes"
	"fmt"

	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/persist"
)

// ErrUnsupportedFormat indicates a report path whose extension is neither
// YAML nor JSON.
var ErrUnsupportedFormat = persist.ErrUnsupportedFormat

// Marshal encodes a run report with codec.
func Marshal(rep *fixer.RunReport, codec persist.Codec) ([]byte, error) {
	var buf bytes.Buffer

	err := codec.Encode(&buf, rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes the report to path in the format its extension names.
func WriteFile(path string, rep *fixer.RunReport) error {
	codec, err := persist.CodecFor(path)
	if err != nil {
		return err
	}

	err = persist.WriteFile(path, codec, rep)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*fixer.RunReport, error) {
	codec, err := persist.CodecFor(path)
	if err != nil {
		return nil, err
	}

	var rep fixer.RunReport

	err = persist.ReadFile(path, codec, &rep)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	return &rep, nil
}
