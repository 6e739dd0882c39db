package inspector

import (
	"errors"
	"regexp"
	"strings"
)

// compositeID matches "<T>::rest" where T holds no '>' and rest is non-empty.
var compositeID = regexp.MustCompile(`(?s)^<([^>]*)>::(.+)$`)

// ErrAmbiguousDiscriminator is returned for discriminators that would not decode back.
var ErrAmbiguousDiscriminator = errors.New("discriminator contains '>'")

// ErrUnquotableID is returned for ids and discriminators holding a double quote. Queries
// name a document by its quoted display identifier, so such an id could not be read back.
var ErrUnquotableID = errors.New(`identifier contains '"'`)

// EncodeDisplayID returns the display identifier of an untyped document. It is rawID
// itself unless rawID already looks composite, in which case it is escaped with an empty
// discriminator ("<>::rawID") so DecodeDisplayID returns it unchanged.
func EncodeDisplayID(rawID string) string {
	if compositeID.MatchString(rawID) {
		return "<>::" + rawID
	}
	return rawID
}

// Quotable reports whether s can appear inside a quoted display identifier.
func Quotable(s string) bool {
	return !strings.Contains(s, `"`)
}

// EncodeTypedDisplayID returns "<discriminator>::rawID".
func EncodeTypedDisplayID(discriminator, rawID string) (string, error) {
	if strings.Contains(discriminator, ">") {
		return "", ErrAmbiguousDiscriminator
	}
	return "<" + discriminator + ">::" + rawID, nil
}

// DecodeDisplayID strips one leading "<T>::" and returns the raw document id.
func DecodeDisplayID(displayID string) string {
	if m := compositeID.FindStringSubmatch(displayID); m != nil {
		return m[2]
	}
	return displayID
}
