package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"eight digit numeric", "19960322", "1996-03-22", true},
		{"iso format", "1996-03-22", "1996-03-22", true},
		{"whitespace trimmed", " 19960322 ", "1996-03-22", true},
		{"seven digits", "1996032", "", false},
		{"eight chars not numeric", "1996032a", "", false},
		{"garbage", "not-a-date", "", false},
		{"empty", "", "", false},
		{"invalid calendar day", "19961340", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSourceDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseAccountNumber(t *testing.T) {
	assert.Equal(t, 12345, parseAccountNumber("12345"))
	assert.Equal(t, 0, parseAccountNumber("abc"))
	assert.Equal(t, 0, parseAccountNumber(""))
	assert.Equal(t, 0, parseAccountNumber("  "))
	assert.Equal(t, 42, parseAccountNumber(" 42 "))
	assert.Equal(t, 0, parseAccountNumber("12.5"))
}

func TestQuarterOf(t *testing.T) {
	// quarter == ((month - 1) / 3) + 1 for every month
	expected := map[int]int{
		1: 1, 2: 1, 3: 1,
		4: 2, 5: 2, 6: 2,
		7: 3, 8: 3, 9: 3,
		10: 4, 11: 4, 12: 4,
	}
	for month, quarter := range expected {
		assert.Equal(t, quarter, quarterOf(month), "month %d", month)
	}
}

func TestQuarterOfMatchesTime(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		d := time.Date(2020, month, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, (int(d.Month())-1)/3+1, quarterOf(int(d.Month())))
	}
}

func TestTextOrDefault(t *testing.T) {
	assert.Equal(t, "WEEKLY", textOrDefault("WEEKLY", true, "UNKNOWN"))
	assert.Equal(t, "UNKNOWN", textOrDefault("", true, "UNKNOWN"))
	assert.Equal(t, "UNKNOWN", textOrDefault("ignored", false, "UNKNOWN"))
	assert.Equal(t, "U", textOrDefault("", false, "U"))
}
