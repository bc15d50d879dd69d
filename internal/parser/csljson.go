// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// parseCSLJSON decodes a CSL-JSON export: a single top-level JSON array
// of objects, one record per object. Unlike BibLaTeX there is no
// per-entry recovery: any syntax error fails the whole document with a
// *ParseError.
func parseCSLJSON(content string) ([]RawRecord, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, &ParseError{Format: types.FormatCSLJSON, Err: err}
	}
	if tok, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{
			Format: types.FormatCSLJSON,
			Err:    fmt.Errorf("trailing content after array: %v", tok),
		}
	}

	records := make([]RawRecord, len(objects))
	for i, obj := range objects {
		records[i] = RawRecord{Format: types.FormatCSLJSON, Object: obj}
	}
	return records, nil
}
