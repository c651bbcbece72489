package services

import "strings"

// brandEntry pairs a lowercase name fragment with its canonical brand.
type brandEntry struct {
	keyword string
	brand   string
}

// brandDictionary is checked in order, with more specific keys before their
// generic prefixes ("bp pulse" before "bp", "shell recharge" before "shell").
var brandDictionary = []brandEntry{
	{"bp pulse", "BP Pulse"},
	{"bp-pulse", "BP Pulse"},
	{"shell recharge", "Shell Recharge"},
	{"pod point", "Pod Point"},
	{"pod-point", "Pod Point"},
	{"source london", "Source London"},
	{"connected kerb", "Connected Kerb"},
	{"chargeplace", "ChargePlace"},
	{"tesla", "Tesla"},
	{"instavolt", "InstaVolt"},
	{"gridserve", "Gridserve"},
	{"ionity", "Ionity"},
	{"osprey", "Osprey"},
	{"geniepoint", "GeniePoint"},
	{"ubitricity", "Ubitricity"},
	{"fastned", "Fastned"},
	{"evyve", "evyve"},
	{"believ", "Believ"},
	{"char.gy", "char.gy"},
	{"mfg", "MFG EV Power"},
	{"blink", "Blink"},
	{"shell", "Shell"},
	{"bp", "BP"},
}

// ExtractBrand maps a free-text station name to a canonical brand. Unknown
// names fall back to their first one or two tokens; empty names are "Other".
func ExtractBrand(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range brandDictionary {
		if strings.Contains(lower, entry.keyword) {
			return entry.brand
		}
	}

	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "Other"
	case 1:
		return tokens[0]
	default:
		return tokens[0] + " " + tokens[1]
	}
}
