package webhook

import (
	"encoding/hex"
	"testing"
)

func TestVerify_RoundTrip(t *testing.T) {
	secret := []byte("whsec_test")
	payload := []byte(`{"event":"invitee.created"}`)
	sig := Sign(payload, "1730000000", secret)

	if !Verify(payload, sig, "1730000000", secret) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerify_FlippedByteFails(t *testing.T) {
	secret := []byte("whsec_test")
	payload := []byte(`{"event":"invitee.created"}`)
	sig := Sign(payload, "1730000000", secret)

	raw, _ := hex.DecodeString(sig)
	raw[0] ^= 0x01
	if Verify(payload, hex.EncodeToString(raw), "1730000000", secret) {
		t.Fatal("flipped signature byte should not verify")
	}
}

func TestVerify_TimestampIsBound(t *testing.T) {
	secret := []byte("whsec_test")
	payload := []byte(`{"event":"invitee.created"}`)
	sig := Sign(payload, "1730000000", secret)

	if Verify(payload, sig, "1730000001", secret) {
		t.Fatal("signature must not verify under a different timestamp")
	}
}

func TestVerify_Rejections(t *testing.T) {
	secret := []byte("whsec_test")
	payload := []byte("{}")
	sig := Sign(payload, "1", secret)

	cases := []struct {
		name      string
		payload   []byte
		sig       string
		timestamp string
		secret    []byte
	}{
		{"non-hex signature", payload, "not-hex!", "1", secret},
		{"empty signature", payload, "", "1", secret},
		{"empty timestamp", payload, sig, "", secret},
		{"empty secret", payload, sig, "1", nil},
		{"wrong secret", payload, sig, "1", []byte("other")},
		{"mutated payload", []byte(`{"a":1}`), sig, "1", secret},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Verify(tc.payload, tc.sig, tc.timestamp, tc.secret) {
				t.Fatal("expected verification failure")
			}
		})
	}
}
