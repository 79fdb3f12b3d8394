package utils

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const defaultAvatarSize = 250

// GravatarURL builds the default avatar reference for an email: gravatar's
// "mystery person" placeholder unless the address has a gravatar image.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = defaultAvatarSize
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	query := url.Values{}
	query.Set("d", "mp")
	query.Set("s", strconv.Itoa(size))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + query.Encode()
}
