package request_models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type AddTravelerRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Language  string   `json:"language"`
	IsPrimary FlexBool `json:"isPrimary"`
}

// FlexBool accepts true/false as well as their string forms ("true", "1").
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, _ := strconv.ParseBool(strings.TrimSpace(s))
	*b = FlexBool(parsed)
	return nil
}
