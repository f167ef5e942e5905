package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: 9 * 60},
		{in: "9:05", want: 9*60 + 5},
		{in: "23:59:00", want: 23*60 + 59},
		{in: "24:00", want: MinutesPerDay},
		{in: " 07:30 ", want: 7*60 + 30},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "12:00:30", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "-0:30", wantErr: true},
		{in: "09:+5", wantErr: true},
		{in: "10:00:-0", wantErr: true},
		{in: "1a:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay(9*60+5).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
}

func TestNewInterval_RequiresEndAfterStart(t *testing.T) {
	_, err := NewInterval("10:00", "10:00")
	assert.Error(t, err)

	_, err = NewInterval("11:00", "10:00")
	assert.Error(t, err)

	iv := mustInterval(t, "10:00", "11:30")
	assert.Equal(t, 90, iv.Minutes())
	assert.Equal(t, "[10:00,11:30)", iv.String())
}

func TestInterval_Overlaps(t *testing.T) {
	existing := mustInterval(t, "09:00", "10:00")

	cases := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"touching after", mustInterval(t, "10:00", "11:00"), false},
		{"touching before", mustInterval(t, "08:00", "09:00"), false},
		{"disjoint", mustInterval(t, "12:00", "13:00"), false},
		{"overlaps end", mustInterval(t, "09:30", "10:30"), true},
		{"overlaps start", mustInterval(t, "08:30", "09:30"), true},
		{"identical", mustInterval(t, "09:00", "10:00"), true},
		{"contains existing", mustInterval(t, "08:00", "11:00"), true},
		{"inside existing", mustInterval(t, "09:15", "09:45"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.candidate.Overlaps(existing))
			assert.Equal(t, tc.want, existing.Overlaps(tc.candidate), "overlap must be symmetric")
		})
	}
}

// The three-clause predicate the listing screens were built around must agree
// with the disjointness test for every pair on a quarter-hour grid.
func TestInterval_OverlapsMatchesThreeClauseForm(t *testing.T) {
	threeClause := func(c, e Interval) bool {
		return (e.Start <= c.Start && c.Start < e.End) ||
			(e.Start < c.End && c.End <= e.End) ||
			(c.Start <= e.Start && c.End >= e.End)
	}
	var grid []TimeOfDay
	for m := 8 * 60; m <= 12*60; m += 15 {
		grid = append(grid, TimeOfDay(m))
	}
	for _, cs := range grid {
		for _, ce := range grid {
			if ce <= cs {
				continue
			}
			for _, es := range grid {
				for _, ee := range grid {
					if ee <= es {
						continue
					}
					c := Interval{Start: cs, End: ce}
					e := Interval{Start: es, End: ee}
					require.Equal(t, threeClause(c, e), c.Overlaps(e), "candidate %s existing %s", c, e)
				}
			}
		}
	}
}
