// Package common contains shared constants and sentinel errors used across
// ScanBiz components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound scan requests.
const AccessTokenHeaderName = "access_token"

// DefaultCategory is the category assigned to contacts created by hand.
const DefaultCategory = "Altro"
