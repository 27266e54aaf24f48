package defs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Response is the envelope returned by every upstream endpoint.
type Response[T any] struct {
	Status int `json:"status"`
	Data   []T `json:"data"`
}

type User struct {
	ID            string `json:"ID"`
	LoginEmail    string `json:"LoginEmail"`
	UserName      string `json:"UserName"`
	DeviceCompany string `json:"DeviceCompany"`
	DeviceUserID  string `json:"DeviceUserID"`
}

func (u User) Key() UserKey {
	return UserKey{LoginEmail: u.LoginEmail, DeviceUserID: u.DeviceUserID}
}

// UserKey identifies a user's device stream upstream.
type UserKey struct {
	LoginEmail   string
	DeviceUserID string
}

func (k UserKey) Valid() bool {
	return k.LoginEmail != "" && k.DeviceUserID != ""
}

type SleepRecord struct {
	LoginEmail      string  `json:"LoginEmail"`
	DeviceUserID    string  `json:"DeviceUserID"`
	Date            string  `json:"Date"`
	SleepOnset      string  `json:"SleepOnset"`
	WakeUpTime      string  `json:"WakeUpTime"`
	Awake           Measure `json:"Awake"`
	Deep            Measure `json:"Deep"`
	Light           Measure `json:"Light"`
	TotalTimeAsleep Measure `json:"TotalTimeAsleep"`
}

func (sr SleepRecord) GetDate() string {
	return sr.Date
}

// TotalAsleep is TotalTimeAsleep, which is reported in seconds.
func (sr SleepRecord) TotalAsleep() time.Duration {
	return time.Duration(sr.TotalTimeAsleep.Int()) * time.Second
}

type ScoreRecord struct {
	LoginEmail   string  `json:"LoginEmail"`
	DeviceUserID string  `json:"DeviceUserID"`
	Date         string  `json:"Date"`
	VitalzScore  float64 `json:"VitalzScore"`
	ScoreType    string  `json:"ScoreType"`
}

func (sc ScoreRecord) GetDate() string {
	return sc.Date
}

// Reading is one vital-sign sample, Time is HH:MM.
type Reading struct {
	LoginEmail       string  `json:"LoginEmail"`
	DeviceUserID     string  `json:"DeviceUserID"`
	Date             string  `json:"Date"`
	Time             string  `json:"Time"`
	HR               float64 `json:"HR"`
	HRV              float64 `json:"HRV"`
	OxygenSaturation float64 `json:"OxygenSaturation"`
}

// Dated is implemented by records keyed on a calendar day.
type Dated interface {
	GetDate() string
}

// Measure is a numeric field the upstream API sends either as a string or a number.
type Measure string

func (m *Measure) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Measure(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Measure(n.String())
	return nil
}

// Int parses the leading integer of the measure, "22.7" is 22 and anything
// non-numeric is 0.
func (m Measure) Int() int {
	s := string(bytes.TrimSpace([]byte(m)))
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
