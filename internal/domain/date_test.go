package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
)

func TestIsValidISODateString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-07-15", true},
		{"2024-02-29", true}, // leap year
		{"2000-02-29", true}, // divisible by 400
		{"2023-02-29", false},
		{"1900-02-29", false}, // divisible by 100, not 400
		{"2024-02-30", false},
		{"2024-04-31", false},
		{"2024-13-01", false},
		{"2024-00-01", false},
		{"2024-01-00", false},
		{"2024-7-15", false},
		{"24-07-15", false},
		{"2024-07-15T00:00:00Z", false},
		{" 2024-07-15", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsValidISODateString(tc.in))
		})
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	for _, s := range []string{"2024-07-15", "2024-02-29", "0001-01-01", "9999-12-31"} {
		d, err := domain.ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}
}

func TestParseDate_ErrorIsValidation(t *testing.T) {
	_, err := domain.ParseDate("2024-02-30")

	assert.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestDate_AddDays(t *testing.T) {
	d := domain.MustParseDate("2024-02-28")

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
}

func TestDate_JSON(t *testing.T) {
	var got struct {
		Day domain.Date `json:"day"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-07-15"}`), &got))
	assert.Equal(t, "2024-07-15", got.Day.String())

	err := json.Unmarshal([]byte(`{"day":"2024-07-32"}`), &got)
	assert.ErrorIs(t, err, domain.ErrValidation)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-07-15"}`, string(b))
}

func TestNewDateRange(t *testing.T) {
	_, err := domain.NewDateRange(domain.MustParseDate("2024-07-16"), domain.MustParseDate("2024-07-15"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	r, err := domain.NewDateRange(domain.MustParseDate("2024-07-15"), domain.MustParseDate("2024-07-15"))
	require.NoError(t, err)
	assert.Equal(t, "2024-07-15..2024-07-15", r.String())
}

func rng(start, end string) domain.DateRange {
	return domain.DateRange{Start: domain.MustParseDate(start), End: domain.MustParseDate(end)}
}

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.DateRange
		want bool
	}{
		{"identical", rng("2024-07-15", "2024-07-17"), rng("2024-07-15", "2024-07-17"), true},
		{"shared boundary day", rng("2024-07-15", "2024-07-17"), rng("2024-07-17", "2024-07-20"), true},
		{"one day gap", rng("2024-07-15", "2024-07-17"), rng("2024-07-18", "2024-07-20"), false},
		{"contained", rng("2024-07-10", "2024-07-30"), rng("2024-07-15", "2024-07-16"), true},
		{"single days equal", rng("2024-07-15", "2024-07-15"), rng("2024-07-15", "2024-07-15"), true},
		{"single days apart", rng("2024-07-15", "2024-07-15"), rng("2024-07-16", "2024-07-16"), false},
		{"across month end", rng("2024-01-30", "2024-02-02"), rng("2024-02-01", "2024-02-05"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

// TestDateRange_OverlapsMatchesDayWalk checks Overlaps against a brute-force
// walk over every day of a small window.
func TestDateRange_OverlapsMatchesDayWalk(t *testing.T) {
	base := domain.MustParseDate("2024-02-26")
	const window = 8

	covers := func(r domain.DateRange, d domain.Date) bool {
		return !d.Before(r.Start) && !d.After(r.End)
	}
	for as := 0; as < window; as++ {
		for ae := as; ae < window; ae++ {
			for bs := 0; bs < window; bs++ {
				for be := bs; be < window; be++ {
					a := domain.DateRange{Start: base.AddDays(as), End: base.AddDays(ae)}
					b := domain.DateRange{Start: base.AddDays(bs), End: base.AddDays(be)}
					want := false
					for i := 0; i < window; i++ {
						d := base.AddDays(i)
						if covers(a, d) && covers(b, d) {
							want = true
							break
						}
					}
					require.Equal(t, want, a.Overlaps(b), "%s vs %s", a, b)
				}
			}
		}
	}
}
