package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// caseSchema validates each JSONL record before decoding. Malformed
// suites fail loudly with the offending line number instead of
// half-running.
const caseSchema = `{
	"type": "object",
	"required": ["id", "question"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"question": {"type": "string", "minLength": 1},
		"must_include": {"type": "array", "items": {"type": "string"}},
		"must_exclude": {"type": "array", "items": {"type": "string"}},
		"must_cite": {"type": "array", "items": {"type": "string"}},
		"policy_expect": {
			"type": "object",
			"properties": {
				"flags_present": {"type": "array", "items": {"type": "string"}},
				"flags_absent": {"type": "array", "items": {"type": "string"}},
				"must_answer": {"type": "string"},
				"quotes_min": {"type": "integer", "minimum": 0},
				"quotes_max": {"type": "integer", "minimum": 0},
				"math_check": {
					"type": "object",
					"required": ["expected"],
					"properties": {"expected": {"type": "number"}}
				}
			}
		}
	}
}`

// LoadSuite reads a JSONL benchmark suite. Blank lines and lines
// starting with # are skipped; every other line must be a valid case.
func LoadSuite(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suite: %w", err)
	}
	defer f.Close()

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(caseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile suite schema: %w", err)
	}

	var cases []Case
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		verdict, err := schema.Validate(gojsonschema.NewStringLoader(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !verdict.Valid() {
			return nil, fmt.Errorf("line %d: %s", lineNo, verdict.Errors()[0].String())
		}

		var c Case
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("line %d: duplicate case id %q", lineNo, c.ID)
		}
		seen[c.ID] = true
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("suite %s contains no cases", path)
	}

	return cases, nil
}
