package models

import "strings"

// Units is the unit system a forecast is requested in and reported in
type Units string

const (
	UnitsUS   Units = "us"
	UnitsSI   Units = "si"
	UnitsUK2  Units = "uk2"
	UnitsCA   Units = "ca"
	UnitsAuto Units = "auto" // request only; the API reports the resolved system
)

// ParseUnits validates a configured unit system
func ParseUnits(s string) (Units, bool) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitsUS, UnitsSI, UnitsUK2, UnitsCA, UnitsAuto:
		return u, true
	}
	return "", false
}

// Resolved reports whether u names a concrete unit system
func (u Units) Resolved() bool {
	return u == UnitsUS || u == UnitsSI || u == UnitsUK2 || u == UnitsCA
}

// Languages accepted by the forecast API's lang parameter
var Languages = map[string]struct{}{
	"ar": {}, "az": {}, "be": {}, "bg": {}, "bn": {}, "bs": {}, "ca": {}, "cs": {},
	"cy": {}, "da": {}, "de": {}, "el": {}, "en": {}, "eo": {}, "es": {}, "et": {},
	"fi": {}, "fr": {}, "he": {}, "hi": {}, "hr": {}, "hu": {}, "id": {}, "is": {},
	"it": {}, "ja": {}, "ka": {}, "kn": {}, "ko": {}, "kw": {}, "lv": {}, "ml": {},
	"mr": {}, "nb": {}, "nl": {}, "no": {}, "pa": {}, "pl": {}, "pt": {}, "ro": {},
	"ru": {}, "sk": {}, "sl": {}, "sr": {}, "sv": {}, "ta": {}, "te": {}, "tet": {},
	"tr": {}, "uk": {}, "ur": {}, "x-pig-latin": {}, "zh": {}, "zh-tw": {},
}
