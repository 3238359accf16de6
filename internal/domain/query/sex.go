package query

import (
	"fmt"
	"strings"

	"github.com/okian/babynames/internal/domain/model"
)

// ParseSexSelector maps a UI selector (F, M, Female, Male; any case) to a
// sex code. An empty selector means "both" and yields "".
func ParseSexSelector(s string) (model.Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "f", "female":
		return model.Female, nil
	case "m", "male":
		return model.Male, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSex, s)
}
