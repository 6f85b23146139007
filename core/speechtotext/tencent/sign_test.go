package tencent

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"testing"
)

func TestSigningStringSortsParamsWithoutEscaping(t *testing.T) {
	got := signingString("asr.cloud.tencent.com", "/asr/v2/1259228442", map[string]string{
		"timestamp":         "1673580000",
		"engine_model_type": "16k_zh",
		"secretid":          "AKID",
		"voice_id":          "a b",
	})

	want := "asr.cloud.tencent.com/asr/v2/1259228442?engine_model_type=16k_zh&secretid=AKID&timestamp=1673580000&voice_id=a b"
	if got != want {
		t.Fatalf("unexpected signing string:\nwant %q\ngot  %q", want, got)
	}
}

func TestSignIsBase64HMACSHA1(t *testing.T) {
	mac := hmac.New(sha1.New, []byte("secret"))
	mac.Write([]byte("payload"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := Sign("secret", "payload"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if Sign("secret", "payload") == Sign("other", "payload") {
		t.Fatalf("expected signature to depend on the key")
	}
}

func TestSignedURLCarriesVerifiableSignature(t *testing.T) {
	endpoint, _ := url.Parse("wss://asr.cloud.tencent.com/asr/v2/42")
	params := map[string]string{"secretid": "id", "nonce": "7"}

	signed, err := url.Parse(signedURL(endpoint, "key", params))
	if err != nil {
		t.Fatalf("invalid signed url: %v", err)
	}

	query := signed.Query()
	if query.Get("secretid") != "id" || query.Get("nonce") != "7" {
		t.Fatalf("expected params in query, got %v", query)
	}
	want := Sign("key", "asr.cloud.tencent.com/asr/v2/42?nonce=7&secretid=id")
	if got := query.Get("signature"); got != want {
		t.Fatalf("expected signature %q, got %q", want, got)
	}
}
