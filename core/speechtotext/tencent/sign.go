package tencent

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Sign returns the base64 encoded HMAC-SHA1 of signStr keyed with secretKey.
func Sign(secretKey, signStr string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(signStr))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signingString joins host, path and the params sorted by key. Values are
// used as is, without escaping.
func signingString(host, path string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(host)
	b.WriteString(path)
	b.WriteByte('?')
	for i, key := range slices.Sorted(maps.Keys(params)) {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(params[key])
	}
	return b.String()
}

// signedURL appends params and their signature to endpoint.
func signedURL(endpoint *url.URL, secretKey string, params map[string]string) string {
	signed := *endpoint
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	query.Set("signature", Sign(secretKey, signingString(endpoint.Host, endpoint.Path, params)))
	signed.RawQuery = query.Encode()
	return signed.String()
}
