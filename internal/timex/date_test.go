package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", d.String())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("14/07/2025")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	from := MustDate("2025-03-28")
	to := MustDate("2025-04-02")
	assert.Equal(t, 5, from.DaysUntil(to))
	assert.Equal(t, -5, to.DaysUntil(from))
	assert.Equal(t, 0, from.DaysUntil(from))
}

func TestDaysUntil_AcrossDSTIsWholeDays(t *testing.T) {
	// dates are UTC so DST shifts never produce fractional days
	assert.Equal(t, 1, MustDate("2025-03-30").DaysUntil(MustDate("2025-03-31")))
}

func TestBetween(t *testing.T) {
	from, to := MustDate("2025-01-10"), MustDate("2025-01-12")
	assert.True(t, MustDate("2025-01-10").Between(from, to))
	assert.True(t, MustDate("2025-01-12").Between(from, to))
	assert.False(t, MustDate("2025-01-13").Between(from, to))
	assert.False(t, MustDate("2025-01-09").Between(from, to))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-05-01","end":null}`), &p))
	assert.Equal(t, "2025-05-01", p.Start.String())
	assert.True(t, p.End.IsZero())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-05-01","end":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"May 1"}`), &p))
}

func TestDate_ScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-02-03", d.String())

	require.NoError(t, d.Scan([]byte("2025-02-04")))
	assert.Equal(t, "2025-02-04", d.String())

	require.NoError(t, d.Scan("2025-02-05T00:00:00Z"))
	assert.Equal(t, "2025-02-05", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := MustDate("2025-02-06").Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-02-06", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"15m"`), &d))
	assert.Equal(t, 15*time.Minute, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration)

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}
