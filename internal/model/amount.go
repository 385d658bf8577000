package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a product or order quantity unit. Robux amounts are numbers,
// gift cards may carry a descriptive text instead.
type Amount struct {
	num    float64
	text   string
	isText bool
}

func NumberAmount(n float64) Amount { return Amount{num: n} }

func TextAmount(s string) Amount { return Amount{text: s, isText: true} }

// Number returns the numeric value and whether the amount is numeric
func (a Amount) Number() (float64, bool) {
	if a.isText {
		return 0, false
	}
	return a.num, true
}

func (a Amount) IsText() bool { return a.isText }

func (a Amount) String() string {
	if a.isText {
		return a.text
	}
	return strconv.FormatFloat(a.num, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.isText {
		return json.Marshal(a.text)
	}
	return json.Marshal(a.num)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = Amount{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAmount(s)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a number or a string: %w", err)
		}
		*a = NumberAmount(n)
		return nil
	}
}
