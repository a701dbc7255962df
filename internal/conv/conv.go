package conv

import (
	"fmt"
	"strconv"
)

// AsInt coerces common scalar representations into an int.
func AsInt(value interface{}) (int, error) {
	switch actual := value.(type) {
	case int:
		return actual, nil
	case int64:
		return int(actual), nil
	case float64:
		return int(actual), nil
	case string:
		ret, err := strconv.Atoi(actual)
		if err != nil {
			return 0, fmt.Errorf("invalid int: %q", actual)
		}
		return ret, nil
	}
	return 0, fmt.Errorf("unsupported int source: %T", value)
}
