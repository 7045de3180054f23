// Package l10n translates user-facing strings of the ebconf command.
package l10n

import (
	"fmt"

	"github.com/snapcore/go-gettext"
)

// Domain is the gettext text domain of the message catalog.
const Domain = "ebconf"

var locale gettext.Catalog

func init() {
	domain := gettext.TextDomain{Name: Domain}
	locale = domain.UserLocale()
}

// T localizes simple strings.
func T(str string, vars ...interface{}) string {
	translation := locale.Gettext(str)
	if len(vars) > 0 {
		translation = fmt.Sprintf(translation, vars...)
	}
	return translation
}

// TN localizes strings with plurals.
func TN(singular, plural string, n uint32, vars ...interface{}) string {
	translation := locale.NGettext(singular, plural, n)
	if len(vars) > 0 {
		translation = fmt.Sprintf(translation, vars...)
	}
	return translation
}
