package timetable

import (
	"strconv"
	"strings"
	"testing"
)

const sampleExport = `1	Math	Mon	0800	60	R101	6A,6B
2	Break	Mon	0900	20	Yard	6A,6B
3	English	Mon	0920	60	R102	6A
4	Lunch	Mon	1230	40	Canteen	6A:1; 6B:2
5	Morning Tea	Tue	1030	15	Yard	6B
6	Rast	Onsdag	1000	10	Gård	6A
7	Break	Saturday	1000	20	Yard	6A
8	Break	Fri	9:00	20	Yard	6A
9	Break	Fri	1000	0	Yard	6A
10	Break	Fri	1100	500	Yard	6A
11	Passing time	Thurs	1155	5	Hall	6A 7C
12	Break senior	Fri	1300	15	Yard	6B,7C

`

func mustDay(t *testing.T, s Schedule, d Weekday) []Interval {
	t.Helper()
	list, ok := s[d]
	if !ok {
		t.Fatalf("schedule missing day %s", d)
	}
	return list
}

func TestBuildAlwaysHasSchoolDays(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "garbage", sampleExport} {
		s, _ := Build(raw, DefaultRules().Filter("6A"), DefaultRules())
		for _, d := range SchoolDays() {
			if s[d] == nil {
				t.Fatalf("day %s is nil for input %q", d, raw)
			}
		}
		if _, ok := s[Sat]; ok {
			t.Fatalf("weekend key present")
		}
	}
}

func TestBuildFiltersByGroup(t *testing.T) {
	rules := DefaultRules()

	a, statsA := Build(sampleExport, rules.Filter("6A"), rules)
	if got := len(mustDay(t, a, Mon)); got != 2 {
		t.Fatalf("6A Monday: expected 2 breaks, got %d", got)
	}
	if got := len(mustDay(t, a, Tue)); got != 0 {
		t.Fatalf("6A Tuesday: expected 0 breaks, got %d", got)
	}
	if got := len(mustDay(t, a, Wed)); got != 1 {
		t.Fatalf("6A Wednesday: expected swedish rast row, got %d", got)
	}
	if got := mustDay(t, a, Thur); len(got) != 1 || got[0].Kind != KindPassing {
		t.Fatalf("6A Thursday: expected passing time, got %+v", got)
	}
	if statsA.Parsed != 4 {
		t.Fatalf("expected 4 parsed rows for 6A, got %d", statsA.Parsed)
	}

	b, _ := Build(sampleExport, rules.Filter("6B"), rules)
	if got := mustDay(t, b, Fri); len(got) != 1 || got[0].Kind != KindSenior {
		t.Fatalf("6B Friday: expected senior break, got %+v", got)
	}

	combined, _ := Build(sampleExport, rules.Filter("6"), rules)
	if got := len(mustDay(t, combined, Tue)); got != 1 {
		t.Fatalf("6 Tuesday: expected 6B morning tea, got %d", got)
	}
	if got := len(mustDay(t, combined, Mon)); got != 2 {
		t.Fatalf("6 Monday: expected 2 breaks, got %d", got)
	}
}

func TestBuildSharedGroupFieldMatchesEveryFilter(t *testing.T) {
	rules := DefaultRules()
	raw := "1\tBreak\tMon\t1000\t15\tYard\t6A,6B\n"
	for _, key := range []string{"6", "6A", "6B"} {
		s, _ := Build(raw, rules.Filter(key), rules)
		if got := len(s[Mon]); got != 1 {
			t.Fatalf("filter %s: expected 1 break, got %d", key, got)
		}
	}
}

func TestBuildNeverKeepsLessons(t *testing.T) {
	rules := DefaultRules()
	for _, key := range []string{"6", "6A", "6B", "7C"} {
		s, stats := Build(sampleExport, rules.Filter(key), rules)
		for _, d := range SchoolDays() {
			for _, iv := range s[d] {
				if iv.Day == Mon && iv.StartMinute == 8*60 {
					t.Fatalf("filter %s kept the Math lesson", key)
				}
			}
		}
		if stats.Reasons[ReasonTitle] < 2 {
			t.Fatalf("filter %s: expected lessons to be counted as title skips, got %v", key, stats.Reasons)
		}
	}
}

func TestBuildRejectsMalformedRows(t *testing.T) {
	rules := DefaultRules()
	_, stats := Build(sampleExport, rules.Filter("6A"), rules)

	want := map[string]int{
		ReasonDay:      1, // Saturday
		ReasonStart:    1, // 9:00
		ReasonDuration: 2, // 0 and 500
	}
	for reason, n := range want {
		if stats.Reasons[reason] != n {
			t.Fatalf("reason %s: expected %d, got %d (%v)", reason, n, stats.Reasons[reason], stats.Reasons)
		}
	}
}

func TestBuildIntervalArithmetic(t *testing.T) {
	rules := DefaultRules()
	for _, tc := range []struct {
		start string
		dur   int
		label string
		end   string
	}{
		{"0000", 1, "00:00", "00:01"},
		{"0905", 20, "09:05", "09:25"},
		{"1230", 40, "12:30", "13:10"},
		{"2300", 60, "23:00", "24:00"},
	} {
		raw := strings.Join([]string{"1", "Break", "Mon", tc.start, strconv.Itoa(tc.dur), "Yard", "6A"}, "\t")
		s, _ := Build(raw, rules.Filter("6A"), rules)
		if len(s[Mon]) != 1 {
			t.Fatalf("start %s: expected one interval", tc.start)
		}
		iv := s[Mon][0]
		if iv.EndMinute-iv.StartMinute != tc.dur {
			t.Fatalf("start %s: duration mismatch %d", tc.start, iv.Duration())
		}
		if iv.StartLabel() != tc.label || iv.EndLabel() != tc.end {
			t.Fatalf("start %s: labels %s-%s", tc.start, iv.StartLabel(), iv.EndLabel())
		}
	}
}

func TestBuildRejectsPastMidnight(t *testing.T) {
	rules := DefaultRules()
	s, stats := Build("1\tBreak\tMon\t2350\t20\tYard\t6A", rules.Filter("6A"), rules)
	if len(s[Mon]) != 0 || stats.Reasons[ReasonBounds] != 1 {
		t.Fatalf("expected bounds rejection, got %v %v", s[Mon], stats.Reasons)
	}
}

func TestBuildSortsAndResolvesDuplicates(t *testing.T) {
	rules := DefaultRules()
	raw := strings.Join([]string{
		"1\tLunch\tMon\t1230\t40\tC\t6A",
		"2\tBreak\tMon\t0900\t20\tY\t6A",
		"3\tRecess\tMon\t1030\t10\tY\t6A",
		"4\tInterval\tMon\t0900\t15\tY\t6A",
	}, "\n")
	s, stats := Build(raw, rules.Filter("6A"), rules)
	list := s[Mon]
	if len(list) != 3 {
		t.Fatalf("expected 3 breaks, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].StartMinute > list[i].StartMinute {
			t.Fatalf("not sorted: %+v", list)
		}
	}
	if list[0].EndMinute != 9*60+15 {
		t.Fatalf("expected the later duplicate row to win, got %+v", list[0])
	}
	if stats.Reasons[ReasonDuplicate] != 1 {
		t.Fatalf("expected one duplicate, got %v", stats.Reasons)
	}
}

func TestBuildSpaceSeparatedColumns(t *testing.T) {
	rules := DefaultRules()
	raw := "12  Morning tea  Tue  1030  15  Main yard  6A, 6B"
	s, _ := Build(raw, rules.Filter("6B"), rules)
	if len(s[Tue]) != 1 {
		t.Fatalf("expected double-space columns to parse, got %+v", s)
	}

	raw = "12 Break Tue 1030 15 Yard 6A"
	if s, _ := Build(raw, rules.Filter("6A"), rules); len(s[Tue]) != 0 {
		t.Fatalf("single spaces should not split columns by default")
	}
	rules.LooseColumns = true
	if s, _ := Build(raw, rules.Filter("6A"), rules); len(s[Tue]) != 1 {
		t.Fatalf("loose columns should split single spaces")
	}
}

func TestBuildDurationCapIsConfigurable(t *testing.T) {
	rules := DefaultRules()
	raw := "1\tLunch\tMon\t1200\t150\tC\t6A"
	if s, _ := Build(raw, rules.Filter("6A"), rules); len(s[Mon]) != 0 {
		t.Fatalf("expected cap to reject 150 minutes")
	}
	rules.MaxDuration = 0
	if s, _ := Build(raw, rules.Filter("6A"), rules); len(s[Mon]) != 1 {
		t.Fatalf("expected disabled cap to accept 150 minutes")
	}
}

func TestBuildFromGaps(t *testing.T) {
	rules := DefaultRules()
	rules.Strategy = StrategyGaps
	raw := strings.Join([]string{
		"1\tMath\tMon\t0800\t60\tR1\t6A",
		"2\tBreak\tMon\t0900\t20\tY\t6A",
		"3\tEnglish\tMon\t0920\t60\tR2\t6A",
		"4\tArt\tMon\t1023\t60\tR3\t6A",
		"5\tScience\tMon\t1130\t30\tR4\t6A",
		"6\tMusic\tMon\t1135\t10\tR5\t6A",
		"7\tHistory\tMon\t1230\t30\tR6\t6A",
		"8\tPE\tMon\t1300\t30\tGym\t6B",
	}, "\n")
	s, stats := Build(raw, rules.Filter("6A"), rules)
	list := s[Mon]
	// 0900-0920 major, 1020-1023 too short, 1123-1130 minor, 1200-1230 major
	if len(list) != 3 {
		t.Fatalf("expected 3 gaps, got %+v", list)
	}
	if list[0].StartLabel() != "09:00" || !list[0].Major {
		t.Fatalf("unexpected first gap %+v", list[0])
	}
	if list[1].StartLabel() != "11:23" || list[1].EndLabel() != "11:30" || list[1].Major {
		t.Fatalf("unexpected second gap %+v", list[1])
	}
	if list[2].StartLabel() != "12:00" || list[2].EndLabel() != "12:30" {
		t.Fatalf("nested lesson should not open a gap, got %+v", list[2])
	}
	if stats.Parsed != 3 {
		t.Fatalf("expected 3 parsed gaps, got %d", stats.Parsed)
	}
}
