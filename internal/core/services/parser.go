package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/logger"
	"github.com/archivist-labs/docqa/internal/policy"
)

// Parser turns raw generator output into a structured answer. It is
// deliberately tolerant: generators produce strings where numbers
// belong, wrap JSON in prose, and invent citation shapes.
type Parser struct {
	maxQuotes  int
	maxBullets int
	disclaimer string
	fallback   string
}

func NewParser(p policy.Policy) *Parser {
	return &Parser{
		maxQuotes:  p.AnswerStyle.MaxQuotes,
		maxBullets: p.AnswerStyle.MaxReasoningBullets,
		disclaimer: p.Disclaimer,
		fallback:   p.Fallback.LowConfidence,
	}
}

// rawAnswer mirrors the generator's JSON contract with loose field
// types so a sloppy payload still decodes.
type rawAnswer struct {
	AnswerText       string     `json:"answer_text"`
	Quotes           []rawQuote `json:"quotes"`
	ReasoningOutline []string   `json:"reasoning_outline"`
	UsedDocuments    []any      `json:"used_documents"`
	PolicyFlags      []string   `json:"policy_flags"`
	Disclaimer       string     `json:"disclaimer"`
}

type rawQuote struct {
	Quote  string   `json:"quote"`
	Source string   `json:"source"`
	Page   any      `json:"page"`
	Score  *float64 `json:"score"`
}

// Parse decodes raw output, recovering from prose-wrapped JSON when
// strict decoding fails. A payload with no recoverable JSON at all
// yields a degraded answer carrying the fallback text.
func (p *Parser) Parse(raw string) (domain.ParsedAnswer, domain.ParseOutcome) {
	var decoded rawAnswer
	outcome := domain.ParseStrict

	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		recovered, ok := recoverJSON(raw)
		if ok {
			err = json.Unmarshal([]byte(recovered), &decoded)
		}
		if !ok || err != nil {
			logger.Warn("answer parse failed, degrading: %v", err)
			return domain.ParsedAnswer{
				AnswerText: p.fallback,
				Disclaimer: p.disclaimer,
			}, domain.ParseDegraded
		}
		outcome = domain.ParseRecovered
	}

	parsed := domain.ParsedAnswer{
		AnswerText:       strings.TrimSpace(decoded.AnswerText),
		ReasoningOutline: decoded.ReasoningOutline,
		UsedDocuments:    normalizeDocuments(decoded.UsedDocuments),
	}

	// Generator-raised flags ride along with the ones the guard adds.
	for _, f := range decoded.PolicyFlags {
		if f = strings.TrimSpace(f); f != "" {
			parsed.PolicyFlags = append(parsed.PolicyFlags, f)
		}
	}

	for _, q := range decoded.Quotes {
		text := strings.TrimSpace(q.Quote)
		if text == "" {
			continue
		}
		parsed.Quotes = append(parsed.Quotes, domain.Quote{
			Text:   text,
			Source: q.Source,
			Page:   pageString(q.Page),
			Score:  q.Score,
		})
	}

	if len(parsed.Quotes) > p.maxQuotes {
		parsed.Quotes = parsed.Quotes[:p.maxQuotes]
	}
	if len(parsed.ReasoningOutline) > p.maxBullets {
		parsed.ReasoningOutline = parsed.ReasoningOutline[:p.maxBullets]
	}
	if len(parsed.Quotes) == 0 {
		parsed.UsedDocuments = nil
	}
	parsed.Disclaimer = p.disclaimer
	if d := strings.TrimSpace(decoded.Disclaimer); d != "" {
		parsed.Disclaimer = d
	}

	return parsed, outcome
}

// recoverJSON extracts the outermost brace-delimited substring.
func recoverJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// normalizeDocuments flattens the used_documents field: plain strings
// pass through and objects contribute their source or filename.
func normalizeDocuments(docs []any) []string {
	var out []string
	for _, d := range docs {
		switch v := d.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			for _, key := range []string{"source", "filename"} {
				if s, ok := v[key].(string); ok && s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

// pageString renders any page value as text. JSON numbers arrive as
// float64; integral values drop the fraction.
func pageString(page any) string {
	switch v := page.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
