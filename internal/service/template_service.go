// internal/service/template_service.go
package service

import (
    "fmt"
    "strings"
)

// LinkPlaceholder is the designated call-to-action slot in a campaign
// template. The operator writes their lure with an inert anchor and the
// dispatcher points it at the per-recipient tracking URL.
const LinkPlaceholder = `href="#"`

// HasTrackingSlot reports whether the template carries the placeholder at all.
func HasTrackingSlot(template string) bool {
    return strings.Contains(template, LinkPlaceholder)
}

// RenderTrackedMessage replaces the first occurrence of the placeholder with
// the tracking URL. Everything else is left byte-identical; a template
// without the placeholder comes back unmodified. No HTML parsing happens here.
func RenderTrackedMessage(template, trackingURL string) string {
    return strings.Replace(template, LinkPlaceholder, fmt.Sprintf("href=%q", trackingURL), 1)
}

// AppendOpenPixel tacks a hidden 1x1 image onto the body so opens are
// recorded even when the recipient never clicks.
func AppendOpenPixel(body, pixelURL string) string {
    return body + fmt.Sprintf(`<img src=%q width="1" height="1" alt="" style="display:none">`, pixelURL)
}
