package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads a policy document from a TOML file and merges it over the
// defaults: keys absent from the file keep their default values. A
// missing file yields the defaults unchanged.
func Load(path string) (Policy, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if err := validate(p); err != nil {
		return Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}

	return p, nil
}

func validate(p Policy) error {
	if p.Retrieval.K <= 0 {
		return errors.New("retrieval.k must be positive")
	}
	if p.Retrieval.FetchK < p.Retrieval.K {
		return errors.New("retrieval.fetch_k must be >= retrieval.k")
	}
	if p.Retrieval.Lambda < 0 || p.Retrieval.Lambda > 1 {
		return errors.New("retrieval.mmr_lambda must be in [0,1]")
	}
	if p.Memory.MaxTurns <= 0 {
		return errors.New("memory.max_turns must be positive")
	}
	if p.AnswerStyle.MaxQuotes < 0 || p.AnswerStyle.MaxReasoningBullets < 0 {
		return errors.New("answer_style limits must not be negative")
	}
	return nil
}
