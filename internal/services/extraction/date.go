package extraction

import "strings"

// FormatDate normalizes D-M-Y or Y-M-D dates (any of / - . separators) to YYYY-MM-DD.
// Two-digit years below 30 map to 20xx, others to 19xx. Unrecognized input is returned as-is.
func FormatDate(s string) string {
	clean := strings.NewReplacer(".", "-", "/", "-").Replace(s)
	parts := strings.Split(clean, "-")
	if len(parts) != 3 {
		return s
	}

	var year, month, day string
	if len(parts[0]) == 4 {
		year, month, day = parts[0], parts[1], parts[2]
	} else {
		day, month, year = parts[0], parts[1], parts[2]
		if len(year) == 2 {
			if year < "30" {
				year = "20" + year
			} else {
				year = "19" + year
			}
		}
	}

	return year + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
