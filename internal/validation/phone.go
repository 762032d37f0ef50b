package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// CountryCode is a dialling prefix with the national number length it accepts.
type CountryCode struct {
	Dial    string
	Country string
	Min     int
	Max     int
	pattern *regexp.Regexp
}

var countryCodes = []CountryCode{
	{Dial: "+93", Country: "Afghanistan", Min: 9, Max: 9},
	{Dial: "+355", Country: "Albania", Min: 9, Max: 9},
	{Dial: "+213", Country: "Algeria", Min: 9, Max: 9},
	{Dial: "+376", Country: "Andorra", Min: 6, Max: 9},
	{Dial: "+244", Country: "Angola", Min: 9, Max: 9},
	{Dial: "+54", Country: "Argentina", Min: 10, Max: 10},
	{Dial: "+374", Country: "Armenia", Min: 8, Max: 8},
	{Dial: "+61", Country: "Australia", Min: 9, Max: 9},
	{Dial: "+43", Country: "Austria", Min: 10, Max: 10},
	{Dial: "+994", Country: "Azerbaijan", Min: 9, Max: 9},
	{Dial: "+973", Country: "Bahrain", Min: 8, Max: 8},
	{Dial: "+880", Country: "Bangladesh", Min: 10, Max: 10},
	{Dial: "+375", Country: "Belarus", Min: 9, Max: 9},
	{Dial: "+32", Country: "Belgium", Min: 9, Max: 9},
	{Dial: "+55", Country: "Brazil", Min: 10, Max: 11},
	{Dial: "+359", Country: "Bulgaria", Min: 9, Max: 9},
	{Dial: "+1", Country: "Canada", Min: 10, Max: 10},
	{Dial: "+56", Country: "Chile", Min: 9, Max: 9},
	{Dial: "+86", Country: "China", Min: 11, Max: 11},
	{Dial: "+57", Country: "Colombia", Min: 10, Max: 10},
	{Dial: "+385", Country: "Croatia", Min: 9, Max: 9},
	{Dial: "+357", Country: "Cyprus", Min: 8, Max: 8},
	{Dial: "+420", Country: "Czech Republic", Min: 9, Max: 9},
	{Dial: "+45", Country: "Denmark", Min: 8, Max: 8},
	{Dial: "+20", Country: "Egypt", Min: 10, Max: 10},
	{Dial: "+372", Country: "Estonia", Min: 7, Max: 8},
	{Dial: "+358", Country: "Finland", Min: 9, Max: 9},
	{Dial: "+33", Country: "France", Min: 9, Max: 9},
	{Dial: "+995", Country: "Georgia", Min: 9, Max: 9},
	{Dial: "+49", Country: "Germany", Min: 10, Max: 11},
	{Dial: "+233", Country: "Ghana", Min: 9, Max: 9},
	{Dial: "+30", Country: "Greece", Min: 10, Max: 10},
	{Dial: "+852", Country: "Hong Kong", Min: 8, Max: 8},
	{Dial: "+36", Country: "Hungary", Min: 9, Max: 9},
	{Dial: "+354", Country: "Iceland", Min: 7, Max: 7},
	{Dial: "+91", Country: "India", Min: 10, Max: 10},
	{Dial: "+62", Country: "Indonesia", Min: 9, Max: 12},
	{Dial: "+98", Country: "Iran", Min: 10, Max: 10},
	{Dial: "+964", Country: "Iraq", Min: 10, Max: 10},
	{Dial: "+353", Country: "Ireland", Min: 9, Max: 9},
	{Dial: "+972", Country: "Israel", Min: 9, Max: 9},
	{Dial: "+39", Country: "Italy", Min: 10, Max: 10},
	{Dial: "+81", Country: "Japan", Min: 10, Max: 10},
	{Dial: "+962", Country: "Jordan", Min: 9, Max: 9},
	{Dial: "+7", Country: "Kazakhstan", Min: 10, Max: 10},
	{Dial: "+254", Country: "Kenya", Min: 9, Max: 9},
	{Dial: "+965", Country: "Kuwait", Min: 8, Max: 8},
	{Dial: "+371", Country: "Latvia", Min: 8, Max: 8},
	{Dial: "+961", Country: "Lebanon", Min: 8, Max: 8},
	{Dial: "+370", Country: "Lithuania", Min: 8, Max: 8},
	{Dial: "+352", Country: "Luxembourg", Min: 9, Max: 9},
	{Dial: "+60", Country: "Malaysia", Min: 9, Max: 10},
	{Dial: "+960", Country: "Maldives", Min: 7, Max: 7},
	{Dial: "+356", Country: "Malta", Min: 8, Max: 8},
	{Dial: "+52", Country: "Mexico", Min: 10, Max: 10},
	{Dial: "+377", Country: "Monaco", Min: 8, Max: 9},
	{Dial: "+976", Country: "Mongolia", Min: 8, Max: 8},
	{Dial: "+212", Country: "Morocco", Min: 9, Max: 9},
	{Dial: "+977", Country: "Nepal", Min: 10, Max: 10},
	{Dial: "+31", Country: "Netherlands", Min: 9, Max: 9},
	{Dial: "+64", Country: "New Zealand", Min: 8, Max: 10},
	{Dial: "+234", Country: "Nigeria", Min: 10, Max: 10},
	{Dial: "+389", Country: "North Macedonia", Min: 8, Max: 8},
	{Dial: "+47", Country: "Norway", Min: 8, Max: 8},
	{Dial: "+968", Country: "Oman", Min: 8, Max: 8},
	{Dial: "+92", Country: "Pakistan", Min: 10, Max: 10},
	{Dial: "+970", Country: "Palestine", Min: 9, Max: 9},
	{Dial: "+51", Country: "Peru", Min: 9, Max: 9},
	{Dial: "+63", Country: "Philippines", Min: 10, Max: 10},
	{Dial: "+48", Country: "Poland", Min: 9, Max: 9},
	{Dial: "+351", Country: "Portugal", Min: 9, Max: 9},
	{Dial: "+974", Country: "Qatar", Min: 8, Max: 8},
	{Dial: "+40", Country: "Romania", Min: 9, Max: 9},
	{Dial: "+7", Country: "Russia", Min: 10, Max: 10},
	{Dial: "+966", Country: "Saudi Arabia", Min: 9, Max: 9},
	{Dial: "+381", Country: "Serbia", Min: 9, Max: 9},
	{Dial: "+65", Country: "Singapore", Min: 8, Max: 8},
	{Dial: "+421", Country: "Slovakia", Min: 9, Max: 9},
	{Dial: "+386", Country: "Slovenia", Min: 8, Max: 8},
	{Dial: "+27", Country: "South Africa", Min: 9, Max: 9},
	{Dial: "+82", Country: "South Korea", Min: 9, Max: 10},
	{Dial: "+34", Country: "Spain", Min: 9, Max: 9},
	{Dial: "+94", Country: "Sri Lanka", Min: 9, Max: 9},
	{Dial: "+46", Country: "Sweden", Min: 9, Max: 10},
	{Dial: "+41", Country: "Switzerland", Min: 9, Max: 9},
	{Dial: "+886", Country: "Taiwan", Min: 9, Max: 9},
	{Dial: "+255", Country: "Tanzania", Min: 9, Max: 9},
	{Dial: "+66", Country: "Thailand", Min: 9, Max: 9},
	{Dial: "+216", Country: "Tunisia", Min: 8, Max: 8},
	{Dial: "+90", Country: "Turkey", Min: 10, Max: 10},
	{Dial: "+256", Country: "Uganda", Min: 9, Max: 9},
	{Dial: "+380", Country: "Ukraine", Min: 9, Max: 9},
	{Dial: "+971", Country: "United Arab Emirates", Min: 9, Max: 9},
	{Dial: "+44", Country: "United Kingdom", Min: 10, Max: 10},
	{Dial: "+1", Country: "United States", Min: 10, Max: 10},
	{Dial: "+598", Country: "Uruguay", Min: 8, Max: 8},
	{Dial: "+998", Country: "Uzbekistan", Min: 9, Max: 9},
	{Dial: "+39", Country: "Vatican City", Min: 10, Max: 10},
	{Dial: "+58", Country: "Venezuela", Min: 10, Max: 10},
	{Dial: "+84", Country: "Vietnam", Min: 9, Max: 10},
	{Dial: "+967", Country: "Yemen", Min: 9, Max: 9},
	{Dial: "+260", Country: "Zambia", Min: 9, Max: 9},
	{Dial: "+263", Country: "Zimbabwe", Min: 9, Max: 9},
}

var nonDigit = regexp.MustCompile(`\D`)

func init() {
	for i := range countryCodes {
		c := &countryCodes[i]
		c.pattern = regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d,%d}$`, c.Min, c.Max))
	}
}

// LookupCountryCode returns the first entry for a dialling prefix such as "+971".
// Shared prefixes (+1, +7, +39) resolve to the first country listed.
func LookupCountryCode(dial string) (CountryCode, bool) {
	dial = strings.TrimSpace(dial)
	if dial != "" && !strings.HasPrefix(dial, "+") {
		dial = "+" + dial
	}
	for _, c := range countryCodes {
		if c.Dial == dial {
			return c, true
		}
	}
	return CountryCode{}, false
}

// CleanPhoneNumber drops everything but digits.
func CleanPhoneNumber(number string) string {
	return nonDigit.ReplaceAllString(number, "")
}

// FormatPhoneNumber renders "<dial> <digits>", or number unchanged for an unknown prefix.
func FormatPhoneNumber(dial, number string) string {
	c, ok := LookupCountryCode(dial)
	if !ok {
		return number
	}
	return c.Dial + " " + CleanPhoneNumber(number)
}

// PhoneNumber checks number against the length and pattern rules of its country.
func (v *Validator) PhoneNumber(field, dial, number string) {
	c, ok := LookupCountryCode(dial)
	if !ok {
		v.AddError(field, "invalid country code")
		return
	}
	clean := CleanPhoneNumber(number)
	if len(clean) < c.Min || len(clean) > c.Max {
		v.AddError(field, fmt.Sprintf("phone number must be between %d and %d digits for %s", c.Min, c.Max, c.Country))
		return
	}
	v.Check(c.pattern.MatchString(clean), field, "invalid phone number format for "+c.Country)
}
