package extraction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const displayDateLayout = "2006-01-02"

// Display renders a record value as the text shown in a result table.
// A nil value renders as "".
func Display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(displayDateLayout)
	case Currency:
		return v.String()
	case Address:
		return v.String()
	case []*Field:
		parts := make([]string, 0, len(v))
		for _, f := range v {
			if s := displayField(f); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]*Field:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := displayField(v[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

func displayField(f *Field) string {
	if f == nil {
		return ""
	}
	if f.Value != nil {
		return Display(f.Value)
	}
	return f.Content
}

// String renders the amount prefixed by the symbol, or the code when no
// symbol was recognized.
func (c Currency) String() string {
	amount := strconv.FormatFloat(c.Amount, 'f', 2, 64)
	switch {
	case c.Symbol != "":
		return c.Symbol + " " + amount
	case c.Code != "":
		return c.Code + " " + amount
	default:
		return amount
	}
}

// String joins the recognized address parts on one line. The free-form
// street address is used when no structured part was recognized.
func (a Address) String() string {
	parts := nonEmpty(
		strings.TrimSpace(a.HouseNumber+" "+a.Road),
		a.Unit,
		a.PoBox,
		a.City,
		strings.TrimSpace(a.State+" "+a.PostalCode),
		a.CountryRegion,
	)
	if len(parts) == 0 {
		return a.StreetAddress
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
