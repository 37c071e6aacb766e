package api

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// apiVersionPath is the fixed prefix of every TAPI signing input.
const apiVersionPath = "/tapi/v3/"

// Param is a single request parameter. Private requests carry an ordered
// list of these; the order is part of the signed message and must never be
// permuted.
type Param struct {
	Key   string
	Value string
}

// Params is the ordered parameter list of one private request.
type Params []Param

// Encode serializes the parameters as a form-encoded query string,
// preserving insertion order. The result is both the signing input suffix
// and the POST body.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// Method returns the tapi_method value, used for error context.
func (p Params) Method() string {
	for _, param := range p {
		if param.Key == "tapi_method" {
			return param.Value
		}
	}
	return ""
}

// Sign computes the TAPI request signature: lowercase hex of the
// HMAC-SHA-512, keyed by the account secret, over the version path, a
// literal '?', and the encoded parameters.
func Sign(secret string, params Params) string {
	message := apiVersionPath + "?" + params.Encode()

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// FormatQuantity renders an order quantity as a fixed-point decimal string
// with 8 decimal places, the precision the exchange expects.
func FormatQuantity(quantity float64) string {
	return strconv.FormatFloat(quantity, 'f', 8, 64)
}

// FormatPrice renders a limit price as a fixed-point decimal string with 2
// decimal places.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// NoncePrecision selects the wall-clock resolution of generated nonces.
type NoncePrecision int

const (
	// NonceMilliseconds derives nonces from the Unix millisecond clock.
	NonceMilliseconds NoncePrecision = iota
	// NonceNanoseconds derives nonces from the Unix nanosecond clock.
	NonceNanoseconds
)

// nonceSource generates the tapi_nonce values. Values are strictly
// increasing even when the clock reads the same instant twice, so rapid
// successive calls are not rejected by the remote nonce check.
type nonceSource struct {
	mu        sync.Mutex
	last      int64
	precision NoncePrecision
	now       func() time.Time
}

func newNonceSource() *nonceSource {
	return &nonceSource{now: time.Now}
}

// Next returns the next nonce as a decimal string.
func (n *nonceSource) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var v int64
	switch n.precision {
	case NonceNanoseconds:
		v = n.now().UnixNano()
	default:
		v = n.now().UnixMilli()
	}
	if v <= n.last {
		v = n.last + 1
	}
	n.last = v

	return strconv.FormatInt(v, 10)
}
