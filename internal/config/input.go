package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/tomsentry/tax-savings-tool/internal/domain"
	"github.com/tomsentry/tax-savings-tool/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Document formats understood by the parser
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// InputParser handles parsing of request and bracket schedule files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// FormatForFile picks the document format from a file extension. Anything
// other than .toml is read as YAML.
func FormatForFile(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadFromFile loads a request from a YAML or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	req, err := ip.ParseRequest(data, FormatForFile(filename))
	if err != nil {
		return nil, err
	}

	// Validate the request
	if err := ip.ValidateRequest(req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}

	return req, nil
}

// ParseRequest decodes a request document without validating it
func (ip *InputParser) ParseRequest(data []byte, format string) (*domain.Request, error) {
	var req domain.Request
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &req); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML, "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported request format %q", format)
	}

	req.NormalizeDates()
	return &req, nil
}

// ValidateRequest checks the request is complete enough to run. Numeric
// rules are left to the calculators, which report them against field names.
func (ip *InputParser) ValidateRequest(req *domain.Request) error {
	if req.AsOf.IsZero() {
		return domain.NewValidationError("as_of", "is required")
	}
	if req.Plan == nil && req.Tax == nil {
		return domain.NewValidationError("request", "must contain a plan or a tax section")
	}

	if plan := req.Plan; plan != nil {
		if plan.SelfAssessment != nil && len(plan.Obligations) > 0 {
			return domain.NewValidationError("plan", "specify either obligations or self_assessment, not both")
		}
		if plan.SelfAssessment == nil {
			if err := plan.Obligations.Validate(); err != nil {
				return err
			}
		}
	}

	if tax := req.Tax; tax != nil {
		if (tax.Annual == nil) == (tax.Partial == nil) {
			return domain.NewValidationError("tax", "specify exactly one of annual or partial income")
		}
		if tax.Annual != nil {
			if err := tax.Annual.Validate(); err != nil {
				return err
			}
		}
		if tax.Partial != nil {
			if err := tax.Partial.Validate(); err != nil {
				return err
			}
		}
		if len(tax.Brackets) > 0 {
			if err := tax.Brackets.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}

// bracketFile is the on-disk shape of a bracket schedule
type bracketFile struct {
	Brackets domain.BracketSchedule `yaml:"brackets" toml:"brackets"`
}

// LoadBrackets reads a bracket schedule from a YAML or TOML file with a top-level brackets list
func (ip *InputParser) LoadBrackets(filename string) (domain.BracketSchedule, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var bf bracketFile
	if FormatForFile(filename) == FormatTOML {
		if _, err := toml.Decode(string(data), &bf); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := bf.Brackets.Validate(); err != nil {
		return nil, fmt.Errorf("bracket schedule %s: %w", filename, err)
	}
	return bf.Brackets, nil
}

// CreateExampleRequest creates an example request covering both calculators
func (ip *InputParser) CreateExampleRequest(asOf time.Time) *domain.Request {
	asOf = dateutil.CalendarDate(asOf)
	return &domain.Request{
		AsOf: asOf,
		Plan: &domain.PlanRequest{
			StartDate:      asOf,
			OpeningBalance: decimal.NewFromInt(35000),
			SelfAssessment: &domain.SelfAssessmentInput{
				CurrentYear: domain.SelfAssessmentAmounts{
					BalancingPayment:       decimal.NewFromInt(12000),
					FirstPaymentOnAccount:  decimal.NewFromInt(9000),
					SecondPaymentOnAccount: decimal.NewFromInt(9000),
				},
				NextYear: domain.SelfAssessmentAmounts{
					BalancingPayment:       decimal.NewFromInt(4000),
					FirstPaymentOnAccount:  decimal.NewFromInt(10000),
					SecondPaymentOnAccount: decimal.NewFromInt(10000),
				},
			},
		},
		Tax: &domain.TaxRequest{
			Annual: &domain.IncomeEstimate{
				Salary:    decimal.NewFromInt(12570),
				Dividends: decimal.NewFromInt(60000),
			},
		},
	}
}

// MarshalRequest encodes a request in the given document format
func (ip *InputParser) MarshalRequest(req *domain.Request, format string) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(req); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(req); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported request format %q", format)
	}
}
