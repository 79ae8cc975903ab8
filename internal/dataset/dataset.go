// Package dataset loads and validates the static training content.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/phishdefender/phish-defender/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixtures []byte

// ErrInvalidDataset is returned when training content breaks a dataset rule
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the full set of training content
type Dataset struct {
	Quickfire  []core.Email     `yaml:"quickfire"`
	Inbox      []core.Email     `yaml:"inbox"`
	Challenges []core.Challenge `yaml:"challenges"`
}

// Parse decodes a YAML dataset. Unknown fields are rejected.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

// Embedded returns the dataset compiled into the binary
func Embedded() (*Dataset, error) {
	return Parse(fixtures)
}

// Validate checks the content rules and reports every violation at once
func (d *Dataset) Validate() error {
	var problems []string
	seen := make(map[string]string)

	checkEmails := func(section string, emails []core.Email) {
		if len(emails) == 0 {
			problems = append(problems, section+": no emails")
		}
		for _, e := range emails {
			where := fmt.Sprintf("%s/%s", section, e.ID)
			if e.ID == "" {
				problems = append(problems, section+": email without id")
			} else if prev, dup := seen[e.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s: id already used in %s", where, prev))
			} else {
				seen[e.ID] = section
			}
			if e.IsPhishing && len(e.RedFlags) == 0 {
				problems = append(problems, where+": phishing email without red flags")
			}
			if e.IsPhishing && strings.TrimSpace(e.Explanation) == "" {
				problems = append(problems, where+": phishing email without explanation")
			}
		}
	}
	checkEmails("quickfire", d.Quickfire)
	checkEmails("inbox", d.Inbox)

	if len(d.Challenges) == 0 {
		problems = append(problems, "challenges: none defined")
	}
	for _, c := range d.Challenges {
		where := "challenges/" + c.ID
		if prev, dup := seen[c.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s: id already used in %s", where, prev))
		} else {
			seen[c.ID] = "challenges"
		}
		if len(c.Options) < 2 {
			problems = append(problems, where+": fewer than two options")
		}
		if !c.HasOption(c.CorrectAnswer) {
			problems = append(problems, fmt.Sprintf("%s: correct answer %q is not an option", where, c.CorrectAnswer))
		}
		values := make([]string, 0, len(c.Options))
		for _, o := range c.Options {
			if slices.Contains(values, o.Value) {
				problems = append(problems, fmt.Sprintf("%s: duplicate option %q", where, o.Value))
			}
			values = append(values, o.Value)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(problems, "; "))
	}
	return nil
}

// Store serves a Dataset as a core.DatasetRepository
type Store struct {
	ds *Dataset
}

// NewStore wraps a dataset
func NewStore(ds *Dataset) *Store {
	return &Store{ds: ds}
}

// NewEmbeddedStore loads and validates the embedded dataset
func NewEmbeddedStore() (*Store, error) {
	ds, err := Embedded()
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return NewStore(ds), nil
}

// QuickfireEmails returns the quickfire emails
func (s *Store) QuickfireEmails(ctx context.Context) ([]core.Email, error) {
	return slices.Clone(s.ds.Quickfire), nil
}

// InboxEmails returns the inbox emails
func (s *Store) InboxEmails(ctx context.Context) ([]core.Email, error) {
	return slices.Clone(s.ds.Inbox), nil
}

// Challenges returns the lab challenges
func (s *Store) Challenges(ctx context.Context) ([]core.Challenge, error) {
	return slices.Clone(s.ds.Challenges), nil
}

// Load reads every section from a repository into a Dataset
func Load(ctx context.Context, repo core.DatasetRepository) (*Dataset, error) {
	qf, err := repo.QuickfireEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quickfire emails: %w", err)
	}
	inbox, err := repo.InboxEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inbox emails: %w", err)
	}
	challenges, err := repo.Challenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenges: %w", err)
	}
	return &Dataset{Quickfire: qf, Inbox: inbox, Challenges: challenges}, nil
}
