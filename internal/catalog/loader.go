package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/SAP-F-2025/interview-session-service/internal/errors"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/validator"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder by file extension. Unknown extensions are
// treated as JSON, which is what the bundled banks use.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads, decodes and validates a bank file.
func LoadFile(path string, v *validator.Validator) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank %s: %w", path, err)
	}
	defer f.Close()

	return Load(f, FormatFromPath(path), v)
}

// Load decodes a bank and builds a Catalog. Every malformed entry is reported;
// nothing is silently dropped. Top-level sections other than mockInterviews
// and practiceQuestions are ignored.
func Load(r io.Reader, format Format, v *validator.Validator) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	var bank models.Bank
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &bank); err != nil {
			return nil, fmt.Errorf("failed to parse YAML question bank: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &bank); err != nil {
			return nil, fmt.Errorf("failed to parse JSON question bank: %w", err)
		}
	}

	if errs := validateBank(bank, v); len(errs) > 0 {
		return nil, errs
	}

	return New(bank), nil
}

func validateBank(bank models.Bank, v *validator.Validator) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	questionIDs := make(map[int]struct{}, len(bank.PracticeQuestions))
	for i, q := range bank.PracticeQuestions {
		prefix := fmt.Sprintf("practiceQuestions[%d]", i)
		errs = append(errs, entryErrors(v, q, prefix)...)

		if _, dup := questionIDs[q.ID]; dup {
			errs = append(errs, *apperrors.NewValidationErrorWithRule(prefix+".id", "must be unique", "unique", q.ID))
		}
		questionIDs[q.ID] = struct{}{}
	}

	interviewIDs := make(map[int]struct{}, len(bank.MockInterviews))
	for i, interview := range bank.MockInterviews {
		prefix := fmt.Sprintf("mockInterviews[%d]", i)
		errs = append(errs, entryErrors(v, interview, prefix)...)

		if _, dup := interviewIDs[interview.ID]; dup {
			errs = append(errs, *apperrors.NewValidationErrorWithRule(prefix+".id", "must be unique", "unique", interview.ID))
		}
		interviewIDs[interview.ID] = struct{}{}

		for j, qid := range interview.QuestionIDs {
			if _, ok := questionIDs[qid]; !ok {
				errs = append(errs, *apperrors.NewValidationErrorWithRule(
					fmt.Sprintf("%s.questions[%d]", prefix, j),
					"references an unknown question", "question_ref", qid))
			}
		}
	}

	return errs
}

func entryErrors(v *validator.Validator, entry interface{}, prefix string) apperrors.ValidationErrors {
	err := v.Validate(entry)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(apperrors.ValidationErrors); ok {
		return verrs.Prefix(prefix)
	}
	return apperrors.ValidationErrors{*apperrors.NewValidationError(prefix, err.Error(), nil)}
}
