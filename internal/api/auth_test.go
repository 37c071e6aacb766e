package api

import (
	"strconv"
	"testing"
	"time"
)

func TestParamsEncodePreservesOrder(t *testing.T) {
	params := Params{
		{"tapi_method", "list_orderbook"},
		{"tapi_nonce", "1609459200000"},
		{"coin_pair", "BRLBTC"},
		{"full", "true"},
	}

	want := "tapi_method=list_orderbook&tapi_nonce=1609459200000&coin_pair=BRLBTC&full=true"
	if got := params.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsEncodeEscapesValues(t *testing.T) {
	params := Params{
		{"a", "x y"},
		{"b", "1&2=3"},
	}

	want := "a=x+y&b=1%262%3D3"
	if got := params.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestSignGoldenVectors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		params Params
		want   string
	}{
		{
			name:   "orderbook request",
			secret: "my-secret",
			params: Params{
				{"tapi_method", "list_orderbook"},
				{"tapi_nonce", "1609459200000"},
				{"coin_pair", "BRLBTC"},
				{"full", "true"},
			},
			want: "5cc7999a36aa532c9969e85bd35d09bf8c79951b4bad37616c01f4ee189669e4624d6a7e81eeca50fb09f7195175745e1360182186c96e5d3b1aeab84ebee214",
		},
		{
			name:   "buy order request",
			secret: "my-secret",
			params: Params{
				{"tapi_method", "place_buy_order"},
				{"tapi_nonce", "1609459200001"},
				{"coin_pair", "BRLBTC"},
				{"quantity", "1.50000000"},
				{"limit_price", "200.12"},
			},
			want: "5b2365d9187d482ae4dbbb7be6baeae3034e6c1ce2d9f71d0b987e9d1d0881ee62810a65d7d386b81e2a0865b5738df3d28657b50e303557edfb764c44a75141",
		},
		{
			name:   "account info with short key",
			secret: "abc",
			params: Params{
				{"tapi_method", "get_account_info"},
				{"tapi_nonce", "1"},
			},
			want: "a23a593f38fdbb7be16def97a96bb00fc7d4a95efdd1e2f1812deeeba97ca490f8853bfa1d3cea17152ab2bd5526869606bf28417e858dec1f0d8777521b00bf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sign(tt.secret, tt.params); got != tt.want {
				t.Errorf("Sign() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignSensitivity(t *testing.T) {
	base := Params{
		{"tapi_method", "list_orderbook"},
		{"tapi_nonce", "1609459200000"},
		{"coin_pair", "BRLBTC"},
		{"full", "true"},
	}
	reference := Sign("my-secret", base)

	// Deterministic for identical inputs
	if again := Sign("my-secret", base); again != reference {
		t.Errorf("Sign() is not deterministic: %q vs %q", again, reference)
	}

	// Changing a value changes the signature
	changed := make(Params, len(base))
	copy(changed, base)
	changed[2].Value = "BRLETH"
	if Sign("my-secret", changed) == reference {
		t.Error("signature did not change when a parameter value changed")
	}

	// Permuting the order changes the signature
	permuted := Params{base[0], base[1], base[3], base[2]}
	if Sign("my-secret", permuted) == reference {
		t.Error("signature did not change when parameter order changed")
	}

	// Changing the secret changes the signature
	other := Sign("other-secret", base)
	if other == reference {
		t.Error("signature did not change when the secret changed")
	}
	want := "06c42c31f63eb9a81782945ad513d7304fb19170cb9abbfb5a96ded13e42aca7d41e0b879a134f555f4528a7f6522e0e8c6c9161a305336975afd6a5d56b324b"
	if other != want {
		t.Errorf("Sign() with other secret = %q, want %q", other, want)
	}
}

func TestFormatQuantityAndPrice(t *testing.T) {
	tests := []struct {
		quantity     float64
		price        float64
		wantQuantity string
		wantPrice    string
	}{
		{1.5, 200.1234, "1.50000000", "200.12"},
		{0.00000001, 0.005, "0.00000001", "0.01"},
		{10, 35000, "10.00000000", "35000.00"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.quantity); got != tt.wantQuantity {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.quantity, got, tt.wantQuantity)
		}
		if got := FormatPrice(tt.price); got != tt.wantPrice {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.wantPrice)
		}
	}
}

func TestNonceMonotonicUnderFrozenClock(t *testing.T) {
	frozen := time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC)
	n := newNonceSource()
	n.now = func() time.Time { return frozen }

	seen := map[string]bool{}
	prev := int64(0)
	for i := 0; i < 5; i++ {
		nonce := n.Next()
		if seen[nonce] {
			t.Fatalf("nonce %q repeated", nonce)
		}
		seen[nonce] = true

		v := mustParseInt(t, nonce)
		if v <= prev {
			t.Fatalf("nonce %d not greater than previous %d", v, prev)
		}
		prev = v
	}

	if want := frozen.UnixMilli() + 4; prev != want {
		t.Errorf("last nonce = %d, want %d", prev, want)
	}
}

func TestNoncePrecision(t *testing.T) {
	frozen := time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC)

	n := newNonceSource()
	n.now = func() time.Time { return frozen }
	if got, want := n.Next(), frozen.UnixMilli(); mustParseInt(t, got) != want {
		t.Errorf("millisecond nonce = %s, want %d", got, want)
	}

	n = newNonceSource()
	n.precision = NonceNanoseconds
	n.now = func() time.Time { return frozen }
	if got, want := n.Next(), frozen.UnixNano(); mustParseInt(t, got) != want {
		t.Errorf("nanosecond nonce = %s, want %d", got, want)
	}
}

func mustParseInt(t *testing.T, s string) int64 {
	t.Helper()
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		t.Fatalf("nonce %q is not a decimal integer: %v", s, err)
	}
	return v
}
