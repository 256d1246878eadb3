// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package clockface

import (
	"fmt"
	"strings"
)

// Locale names weekdays and months. The font has no accented letters.
type Locale struct {
	Name string
	// Weekdays starts on Monday.
	Weekdays [7]string
	// Months starts on January.
	Months [12]string
}

// French is the default locale.
var French = Locale{
	Name:     "fr",
	Weekdays: [7]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"},
	Months: [12]string{
		"janvier", "fevrier", "mars", "avril", "mai", "juin",
		"juillet", "aout", "septembre", "octobre", "novembre", "decembre",
	},
}

// English names. Months are abbreviated to fit the date field.
var English = Locale{
	Name:     "en",
	Weekdays: [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	Months: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
}

// LookupLocale returns the locale called name.
func LookupLocale(name string) (Locale, error) {
	for _, l := range []Locale{French, English} {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return Locale{}, fmt.Errorf("clockface: unknown locale %q", name)
}

// Date formats a date as "Weekday D month". Out of range indexes fall back
// to the first name.
func (l *Locale) Date(weekday, day, month int) string {
	if weekday < 0 || weekday >= len(l.Weekdays) {
		weekday = 0
	}
	if month < 0 || month >= len(l.Months) {
		month = 0
	}
	return fmt.Sprintf("%s %d %s", l.Weekdays[weekday], day, l.Months[month])
}
