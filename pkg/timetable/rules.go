package timetable

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strategy selects how breaks are derived from the export.
type Strategy string

const (
	// StrategyRows keeps rows whose title names a break.
	StrategyRows Strategy = "rows"
	// StrategyGaps derives breaks from the gaps between ordinary lessons.
	StrategyGaps Strategy = "gaps"
)

// Keyword maps a case-insensitive title substring to a kind.
type Keyword struct {
	Match string `yaml:"match"`
	Kind  Kind   `yaml:"kind"`
}

// Rules are the lookup tables and limits used by Build. They are data so a
// school can supply its own vocabulary in a YAML file.
type Rules struct {
	Strategy Strategy
	// Days maps lower-case day codes to school days.
	Days map[string]Weekday
	// Lunch keywords are checked before Keywords.
	Lunch    []string
	Keywords []Keyword
	// GapIgnore titles are never treated as lessons by StrategyGaps.
	GapIgnore []string
	// Combined maps an aggregate group key to its member groups.
	Combined map[string][]string
	// MaxDuration rejects longer rows; zero disables the cap.
	MaxDuration  int
	MinGap       int
	MajorGap     int
	LooseColumns bool
}

// DefaultRules returns the built-in English and Swedish tables.
func DefaultRules() Rules {
	return Rules{
		Strategy: StrategyRows,
		Days: map[string]Weekday{
			"mon": Mon, "monday": Mon, "mån": Mon, "måndag": Mon,
			"tue": Tue, "tues": Tue, "tuesday": Tue, "tis": Tue, "tisdag": Tue,
			"wed": Wed, "wednesday": Wed, "ons": Wed, "onsdag": Wed,
			"thu": Thur, "thur": Thur, "thurs": Thur, "thursday": Thur, "tor": Thur, "torsdag": Thur,
			"fri": Fri, "friday": Fri, "fre": Fri, "fredag": Fri,
		},
		Lunch: []string{"lunch"},
		Keywords: []Keyword{
			{Match: "break senior", Kind: KindSenior},
			{Match: "passing time", Kind: KindPassing},
			{Match: "break", Kind: KindBreak},
			{Match: "recess", Kind: KindBreak},
			{Match: "morning tea", Kind: KindBreak},
			{Match: "interval", Kind: KindBreak},
			{Match: "rast", Kind: KindBreak},
		},
		GapIgnore: []string{"break", "rast"},
		Combined: map[string][]string{
			"6": {"6A", "6B"},
		},
		MaxDuration: 120,
		MinGap:      5,
		MajorGap:    20,
	}
}

// NormalizeDay maps a raw day code to a school day. Weekend names and
// anything outside the table are rejected.
func (r Rules) NormalizeDay(code string) (Weekday, bool) {
	d, ok := r.Days[strings.ToLower(strings.TrimSpace(code))]
	if !ok || !d.IsSchoolDay() {
		return "", false
	}
	return d, true
}

// Classify returns the kind named by title, if any.
func (r Rules) Classify(title string) (Kind, bool) {
	t := strings.ToLower(title)
	for _, l := range r.Lunch {
		if l != "" && strings.Contains(t, strings.ToLower(l)) {
			return KindLunch, true
		}
	}
	for _, k := range r.Keywords {
		if k.Match != "" && strings.Contains(t, strings.ToLower(k.Match)) {
			return k.Kind, true
		}
	}
	return "", false
}

func (r Rules) ignoredByGaps(title string) bool {
	t := strings.ToLower(title)
	for _, k := range r.GapIgnore {
		if k != "" && strings.Contains(t, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// rulesFile is the YAML shape. Pointer fields distinguish "unset" from zero.
type rulesFile struct {
	Strategy     Strategy            `yaml:"strategy"`
	Days         map[string]Weekday  `yaml:"days"`
	Lunch        []string            `yaml:"lunch"`
	Keywords     []Keyword           `yaml:"keywords"`
	GapIgnore    []string            `yaml:"gapIgnore"`
	Combined     map[string][]string `yaml:"combined"`
	MaxDuration  *int                `yaml:"maxDuration"`
	MinGap       *int                `yaml:"minGap"`
	MajorGap     *int                `yaml:"majorGap"`
	LooseColumns *bool               `yaml:"looseColumns"`
}

// LoadRules reads a YAML rules file and overlays it on base. Day synonyms and
// combined groups are merged; keyword lists replace the defaults when given.
func LoadRules(path string, base Rules) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data, base)
}

// ParseRules is LoadRules for in-memory YAML.
func ParseRules(data []byte, base Rules) (Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("parsing rules: %w", err)
	}

	out := base
	out.Days = make(map[string]Weekday, len(base.Days)+len(f.Days))
	for k, v := range base.Days {
		out.Days[k] = v
	}
	for k, v := range f.Days {
		if !v.IsSchoolDay() {
			return base, fmt.Errorf("rules: day %q maps to %q, not a school day", k, v)
		}
		out.Days[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out.Combined = make(map[string][]string, len(base.Combined)+len(f.Combined))
	for k, v := range base.Combined {
		out.Combined[k] = v
	}
	for k, v := range f.Combined {
		if len(v) == 0 {
			return base, fmt.Errorf("rules: combined group %q has no members", k)
		}
		out.Combined[strings.ToUpper(k)] = v
	}

	if f.Strategy != "" {
		if f.Strategy != StrategyRows && f.Strategy != StrategyGaps {
			return base, fmt.Errorf("rules: unknown strategy %q", f.Strategy)
		}
		out.Strategy = f.Strategy
	}
	if f.Lunch != nil {
		out.Lunch = f.Lunch
	}
	if f.Keywords != nil {
		out.Keywords = make([]Keyword, 0, len(f.Keywords))
		for _, k := range f.Keywords {
			kind, err := ParseKind(string(k.Kind))
			if err != nil {
				return base, err
			}
			out.Keywords = append(out.Keywords, Keyword{Match: k.Match, Kind: kind})
		}
	}
	if f.GapIgnore != nil {
		out.GapIgnore = f.GapIgnore
	}
	if f.MaxDuration != nil {
		out.MaxDuration = *f.MaxDuration
	}
	if f.MinGap != nil {
		out.MinGap = *f.MinGap
	}
	if f.MajorGap != nil {
		out.MajorGap = *f.MajorGap
	}
	if f.LooseColumns != nil {
		out.LooseColumns = *f.LooseColumns
	}
	return out, nil
}
