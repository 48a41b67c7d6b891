package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth_String(t *testing.T) {
	assert.Equal(t, "2017-01", NewMonth(2017, time.January).String())
	assert.Equal(t, "0999-12", NewMonth(999, time.December).String())
}

func TestMonth_Ordering(t *testing.T) {
	jan := NewMonth(2018, time.January)
	dec := NewMonth(2017, time.December)
	feb := NewMonth(2018, time.February)

	assert.True(t, dec.Before(jan))
	assert.True(t, jan.Before(feb))
	assert.True(t, feb.After(dec))
	assert.False(t, jan.Before(jan))
	assert.False(t, jan.After(jan))
}

func TestMonth_IsZero(t *testing.T) {
	assert.True(t, Month{}.IsZero())
	assert.False(t, NewMonth(2020, time.March).IsZero())
}

func TestMonthOf(t *testing.T) {
	m := MonthOf(time.Date(2019, time.July, 23, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, NewMonth(2019, time.July), m)
	assert.Equal(t, time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC), m.Time())
}

func TestMonth_JSON(t *testing.T) {
	rec := CrimeRecord{Community: "X", Category: "ASSAULT", Date: NewMonth(2017, time.March), Cases: 3}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"community":"X","category":"ASSAULT","date":"2017-03","cases":3}`, string(data))

	var back CrimeRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestMonth_UnmarshalTextInvalid(t *testing.T) {
	var m Month
	err := m.UnmarshalText([]byte("March"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse month")
}
