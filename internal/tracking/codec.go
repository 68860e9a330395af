// internal/tracking/codec.go
package tracking

import (
    "encoding/base64"
    "fmt"
    "strings"

    appErrors "github.com/phishsim/phishsim-backend/internal/errors"
)

// Codec builds and parses the opaque token that correlates an inbound
// tracking hit back to a (campaign, recipient) pair. The token is a single
// URL-path-safe segment: base64url of "campaignID|recipient". It is an
// identifier, not a secret — forging one only misattributes an event.
type Codec struct {
    baseURL string
}

func NewCodec(baseURL string) *Codec {
    return &Codec{baseURL: strings.TrimRight(baseURL, "/")}
}

// Encode returns the tracking token for one recipient of one campaign.
// Campaign IDs are UUIDs, so "|" never appears in them; the recipient may
// contain anything, including "|", since Decode splits on the first pipe only.
func (c *Codec) Encode(campaignID, recipient string) (string, error) {
    if campaignID == "" {
        return "", fmt.Errorf("tracking: empty campaign id")
    }
    raw := campaignID + "|" + recipient
    return base64.RawURLEncoding.EncodeToString([]byte(raw)), nil
}

// Decode parses a token back into (campaignID, recipient).
func (c *Codec) Decode(token string) (campaignID, recipient string, err error) {
    decoded, err := base64.RawURLEncoding.DecodeString(token)
    if err != nil {
        return "", "", appErrors.ErrMalformedReference
    }
    parts := strings.SplitN(string(decoded), "|", 2)
    if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
        return "", "", appErrors.ErrMalformedReference
    }
    return parts[0], parts[1], nil
}

// OpenURL is the pixel URL embedded in the message body.
func (c *Codec) OpenURL(token string) string {
    return c.baseURL + "/api/track/open/" + token
}

// ClickURL is the link target injected into the template's call-to-action.
func (c *Codec) ClickURL(token string) string {
    return c.baseURL + "/api/track/click/" + token
}
