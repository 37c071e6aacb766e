package api

import (
	"encoding/json"
	"fmt"
)

// Status is the numeric status code carried by every private TAPI response
// envelope. The set of codes is closed: decoding a code not listed here
// fails instead of defaulting.
// See docs: https://www.mercadobitcoin.com.br/trade-api/#resposta-response
type Status int

const (
	StatusSuccess              Status = 100
	StatusTradingHalted        Status = 199
	StatusPostRequestRequired  Status = 200
	StatusInvalidTapiID        Status = 201
	StatusInvalidTapiMac       Status = 202
	StatusInvalidTapiNonce     Status = 203
	StatusInvalidTapiMethod    Status = 204
	StatusInvalidCoinPair      Status = 205
	StatusInvalidParam         Status = 206
	StatusInsufficientBRL      Status = 207
	StatusReadOnlyKey          Status = 211
	StatusInsufficientBTC      Status = 215
	StatusInsufficientLTC      Status = 216
	StatusInvalidBTCQuantity   Status = 222
	StatusInvalidLTCQuantity   Status = 223
	StatusInvalidPrice         Status = 224
	StatusInvalidDecimalCases  Status = 227
	StatusInsufficientBCH      Status = 232
	StatusInvalidBCHQuantity   Status = 234
	StatusInsufficientXRP      Status = 240
	StatusInvalidXRPQuantity   Status = 242
	StatusInsufficientETH      Status = 243
	StatusInvalidETHQuantity   Status = 245
	StatusRequestLimitExceeded Status = 429
	StatusInvalidRequest       Status = 430
	StatusRequestBlocked       Status = 431
	StatusOrderProcessing      Status = 432
	StatusInternalError        Status = 500
)

var statusText = map[Status]string{
	StatusSuccess:              "success",
	StatusTradingHalted:        "trading stopped",
	StatusPostRequestRequired:  "POST request required",
	StatusInvalidTapiID:        "invalid TAPI-ID",
	StatusInvalidTapiMac:       "invalid TAPI-MAC",
	StatusInvalidTapiNonce:     "invalid TAPI nonce",
	StatusInvalidTapiMethod:    "invalid TAPI method",
	StatusInvalidCoinPair:      "invalid coin pair",
	StatusInvalidParam:         "invalid param",
	StatusInsufficientBRL:      "insufficient BRL balance",
	StatusReadOnlyKey:          "read only key",
	StatusInsufficientBTC:      "insufficient Bitcoin balance",
	StatusInsufficientLTC:      "insufficient Litecoin balance",
	StatusInvalidBTCQuantity:   "invalid Bitcoin quantity",
	StatusInvalidLTCQuantity:   "invalid Litecoin quantity",
	StatusInvalidPrice:         "invalid price",
	StatusInvalidDecimalCases:  "invalid decimal cases",
	StatusInsufficientBCH:      "insufficient BCash balance",
	StatusInvalidBCHQuantity:   "invalid BCash quantity",
	StatusInsufficientXRP:      "insufficient XRP balance",
	StatusInvalidXRPQuantity:   "invalid XRP quantity",
	StatusInsufficientETH:      "insufficient Ethereum balance",
	StatusInvalidETHQuantity:   "invalid Ethereum quantity",
	StatusRequestLimitExceeded: "request limit exceeded",
	StatusInvalidRequest:       "invalid request",
	StatusRequestBlocked:       "blocked",
	StatusOrderProcessing:      "order still processing",
	StatusInternalError:        "internal error",
}

// String returns the documented meaning of the status code.
func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("unknown status %d", int(s))
}

// UnmarshalJSON decodes the numeric code and rejects values outside the
// documented set.
func (s *Status) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("failed to parse status code: %w", err)
	}
	if _, ok := statusText[Status(code)]; !ok {
		return fmt.Errorf("unknown status code %d", code)
	}
	*s = Status(code)
	return nil
}
