package account

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rate is an hourly rate held in cents. At most four integer digits and two
// decimal places are accepted.
type Rate int64

const MaxRate Rate = 999999

var ratePattern = regexp.MustCompile(`^(\d{1,4})(?:\.(\d{1,2}))?$`)

func ParseRate(raw string) (Rate, error) {
	m := ratePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("hourly rate must be a non-negative number with at most 4 digits before and 2 after the decimal point")
	}

	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, err
	}
	frac := m[2]
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}

	return Rate(whole*100 + cents), nil
}

func (r Rate) String() string {
	return fmt.Sprintf("%d.%02d", int64(r)/100, int64(r)%100)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts both "25.50" and 25.5.
func (r *Rate) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseRate(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
