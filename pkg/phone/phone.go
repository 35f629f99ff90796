// Package phone normalizes Myanmar mobile numbers and maps them to their
// telecom provider for eSIM eligibility checks.
package phone

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Provider string

const (
	MPT     Provider = "MPT"
	ATOM    Provider = "ATOM"
	MYTEL   Provider = "MYTEL"
	OOREDOO Provider = "OOREDOO"
	Unknown Provider = "UNKNOWN"
)

var (
	strictPattern  = regexp.MustCompile(`^(09|959|\+959)\d{7,9}$`)
	lenientPattern = regexp.MustCompile(`^\d{9,15}$`)
	stripPattern   = regexp.MustCompile(`[\s\-()]`)
)

// DefaultPrefixes is the operator prefix table.
var DefaultPrefixes = map[Provider][]string{
	MPT:     {"09", "097", "098"},
	ATOM:    {"094", "0944", "0945"},
	MYTEL:   {"096", "0966", "0967", "0968", "0969"},
	OOREDOO: {"099", "0995", "0996", "0997"},
}

// DefaultESIMProviders can activate eSIM profiles.
var DefaultESIMProviders = []Provider{MPT, ATOM, MYTEL}

// ParseProvider upper-cases s and returns Unknown for anything not in the
// prefix table.
func ParseProvider(s string) Provider {
	p := Provider(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := DefaultPrefixes[p]; ok {
		return p
	}
	return Unknown
}

// Normalize strips separators and rewrites +959 and 959 to 09.
func Normalize(phone string) string {
	cleaned := stripPattern.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(cleaned, "+959"):
		return "09" + cleaned[4:]
	case strings.HasPrefix(cleaned, "959"):
		return "09" + cleaned[3:]
	}
	return cleaned
}

// Format renders a normalized number as 09-xxx-xxx-xxx for display.
func Format(normalized string) string {
	switch len(normalized) {
	case 10, 11:
		return normalized[:2] + "-" + normalized[2:5] + "-" + normalized[5:8] + "-" + normalized[8:]
	case 9:
		return normalized[:2] + "-" + normalized[2:5] + "-" + normalized[5:]
	}
	return normalized
}

type prefixEntry struct {
	prefix   string
	provider Provider
}

type Option func(*Validator)

// WithLenient accepts any 9 to 15 digit string that fails the strict pattern.
// Such numbers get provider Unknown.
func WithLenient() Option {
	return func(v *Validator) {
		v.lenient = true
	}
}

func WithPrefixes(prefixes map[Provider][]string) Option {
	return func(v *Validator) {
		v.prefixes = prefixes
	}
}

func WithESIMProviders(providers ...Provider) Option {
	return func(v *Validator) {
		v.esim = providers
	}
}

// Validator holds an immutable prefix table and is safe for concurrent use.
type Validator struct {
	prefixes map[Provider][]string
	esim     []Provider
	lenient  bool

	table []prefixEntry
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		prefixes: DefaultPrefixes,
		esim:     DefaultESIMProviders,
	}
	for _, opt := range opts {
		opt(v)
	}

	for provider, prefixes := range v.prefixes {
		for _, prefix := range prefixes {
			v.table = append(v.table, prefixEntry{prefix: prefix, provider: provider})
		}
	}
	// Longest prefix first; ties broken by prefix then provider so the
	// result never depends on map order.
	sort.Slice(v.table, func(i, j int) bool {
		a, b := v.table[i], v.table[j]
		if len(a.prefix) != len(b.prefix) {
			return len(a.prefix) > len(b.prefix)
		}
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		return a.provider < b.provider
	})

	return v
}

// DetectProvider returns the provider of the longest matching prefix.
func (v *Validator) DetectProvider(normalized string) Provider {
	for _, e := range v.table {
		if strings.HasPrefix(normalized, e.prefix) {
			return e.provider
		}
	}
	return Unknown
}

func (v *Validator) SupportsESIM(p Provider) bool {
	for _, s := range v.esim {
		if s == p {
			return true
		}
	}
	return false
}

// ProviderInfo describes one provider of the prefix table.
type ProviderInfo struct {
	Name        Provider `json:"name"`
	Prefixes    []string `json:"prefixes"`
	ESIMSupport bool     `json:"esim_supported"`
}

func (v *Validator) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(v.prefixes))
	for p, prefixes := range v.prefixes {
		out = append(out, ProviderInfo{
			Name:        p,
			Prefixes:    append([]string(nil), prefixes...),
			ESIMSupport: v.SupportsESIM(p),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type Result struct {
	Valid      bool     `json:"valid"`
	Normalized string   `json:"normalized"`
	Formatted  string   `json:"formatted"`
	Provider   Provider `json:"provider"`
	Lenient    bool     `json:"lenient"`
	Errors     []string `json:"errors"`
}

// Validate normalizes phone, checks its format and detects its provider.
func (v *Validator) Validate(phone string) Result {
	normalized := Normalize(phone)
	res := Result{
		Normalized: normalized,
		Provider:   Unknown,
		Errors:     []string{},
	}

	if !strictPattern.MatchString(normalized) {
		if v.lenient && lenientPattern.MatchString(normalized) {
			res.Valid = true
			res.Lenient = true
			res.Formatted = normalized
			return res
		}
		res.Errors = append(res.Errors, "Invalid Myanmar phone number format")
		return res
	}

	res.Formatted = Format(normalized)
	res.Provider = v.DetectProvider(normalized)
	if res.Provider == Unknown {
		res.Errors = append(res.Errors, "Unable to detect provider from phone number")
		return res
	}

	res.Valid = true
	return res
}

type Eligibility struct {
	Eligible          bool     `json:"eligible"`
	PhoneValid        bool     `json:"phone_valid"`
	Normalized        string   `json:"normalized"`
	DetectedProvider  Provider `json:"detected_provider"`
	RequestedProvider Provider `json:"requested_provider"`
	Reasons           []string `json:"reasons"`
}

// IsEligible reports whether phone can activate an eSIM with claimed. Every
// failed rule adds a reason.
func (v *Validator) IsEligible(phone string, claimed string) Eligibility {
	res := v.Validate(phone)
	requested := Provider(strings.ToUpper(strings.TrimSpace(claimed)))

	out := Eligibility{
		PhoneValid:        res.Valid,
		Normalized:        res.Normalized,
		DetectedProvider:  res.Provider,
		RequestedProvider: requested,
		Reasons:           append([]string{}, res.Errors...),
	}

	switch {
	case !res.Valid:
	case res.Provider == Unknown:
		out.Reasons = append(out.Reasons, fmt.Sprintf("Unable to confirm phone number belongs to %s", requested))
	case res.Provider != requested:
		out.Reasons = append(out.Reasons, fmt.Sprintf("Phone number belongs to %s, not %s", res.Provider, requested))
	}
	if !v.SupportsESIM(requested) {
		out.Reasons = append(out.Reasons, fmt.Sprintf("%s does not support eSIM activation", requested))
	}

	out.Eligible = res.Valid && len(out.Reasons) == 0
	return out
}
