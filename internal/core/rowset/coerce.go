package rowset

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"estoque/internal/core/types"
)

// Date layouts accepted for text date columns. The ERP stores most dates as
// CHAR(8) YYYYMMDD.
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case time.Time:
		return x.Format("2006-01-02")
	case pgtype.Text:
		if !x.Valid {
			return ""
		}
		return strings.TrimSpace(x.String)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return x, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint32:
		return decimal.NewFromInt(int64(x)), nil
	case string:
		return types.ParseDecimal(x)
	case []byte:
		return types.ParseDecimal(string(x))
	case pgtype.Numeric:
		if !x.Valid {
			return decimal.Zero, nil
		}
		if x.NaN || x.InfinityModifier != pgtype.Finite || x.Int == nil {
			return decimal.Zero, fmt.Errorf("numeric is not finite")
		}
		return decimal.NewFromBigInt(x.Int, x.Exp), nil
	case pgtype.Float8:
		if !x.Valid {
			return decimal.Zero, nil
		}
		return decimal.NewFromFloat(x.Float64), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func toTime(v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		return &x, nil
	case pgtype.Date:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil, nil
		}
		t := x.Time
		return &t, nil
	case pgtype.Timestamp:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil, nil
		}
		t := x.Time
		return &t, nil
	case pgtype.Timestamptz:
		if !x.Valid || x.InfinityModifier != pgtype.Finite {
			return nil, nil
		}
		t := x.Time
		return &t, nil
	case string:
		return parseTime(x)
	case []byte:
		return parseTime(string(x))
	default:
		return nil, fmt.Errorf("unsupported date type %T", v)
	}
}

func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}
