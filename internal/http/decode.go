package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// flag is a boolean that also accepts the spellings HTML forms submit.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "null":
		*f = false
		return nil
	case "true", "1":
		*f = true
		return nil
	case "false", "0":
		*f = false
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean %s", raw)
	}
	value, err := parseFlag(s)
	if err != nil {
		return err
	}
	*f = flag(value)
	return nil
}

// parseFlag accepts true/false, on/off and 1/0. An empty value is false.
func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1":
		return true, nil
	case "", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// count is an integer that also accepts the quoted digits HTML forms submit.
// Anything that is not a whole number reads as zero so that validation, not
// decoding, rejects it.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*c = 0
		return nil
	}

	var text string
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	} else {
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("invalid integer %s", raw)
		}
		text = number.String()
	}

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		value = 0
	}
	*c = count(value)
	return nil
}
