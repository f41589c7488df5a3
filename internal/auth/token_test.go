package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(testSecret, ttl)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
	}{
		{name: "user", role: domain.RoleUser},
		{name: "analyst", role: domain.RoleAnalyst},
		{name: "admin", role: domain.RoleAdmin},
	}

	tm := testManager(7 * 24 * time.Hour)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			credential, expiresAt, err := tm.Issue("acc-1", "ana@example.com", "Ana", tc.role)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if remaining := time.Until(expiresAt); remaining < 6*24*time.Hour {
				t.Errorf("expiry %v from now, want about 7 days", remaining)
			}

			claims, err := tm.Verify(credential)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if claims.Subject != "acc-1" || claims.Email != "ana@example.com" || claims.Name != "Ana" || claims.Role != tc.role {
				t.Errorf("claims = %+v, want original identity", claims)
			}
		})
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	tm := testManager(time.Hour)
	credential, _, err := tm.Issue("acc-1", "ana@example.com", "Ana", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		t.Fatalf("credential has %d segments, want 3", len(parts))
	}

	// Flip one bit in every byte of the decoded signature in turn; each
	// mutation must invalidate the credential. Mutating the base64 text
	// instead would also touch padding bits the decoder ignores.
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	for i := range sig {
		mutated := append([]byte(nil), sig...)
		mutated[i] ^= 0x01
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(mutated)
		if _, err := tm.Verify(tampered); err == nil {
			t.Fatalf("Verify accepted credential with signature byte %d flipped", i)
		}
	}
}

func TestVerifyRejectsTamperedClaims(t *testing.T) {
	tm := testManager(time.Hour)
	credential, _, err := tm.Issue("acc-1", "ana@example.com", "Ana", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(credential, ".")
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]
	if _, err := tm.Verify(tampered); err == nil {
		t.Fatal("Verify accepted credential with mutated claim bytes")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	// Sign an already-expired credential with the same secret: the signature
	// is valid, the expiry is not.
	claims := &SessionClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		Role:  domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := testManager(time.Hour).Verify(signed); err == nil {
		t.Fatal("Verify accepted an expired credential")
	}
}

func TestVerifyRejectsGarbageAndWrongKey(t *testing.T) {
	tm := testManager(time.Hour)

	tests := []struct {
		name       string
		credential string
	}{
		{name: "empty", credential: ""},
		{name: "not a token", credential: "definitely-not-a-jwt"},
		{name: "two segments", credential: "abc.def"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tm.Verify(tc.credential); err == nil {
				t.Fatalf("Verify accepted %q", tc.credential)
			}
		})
	}

	other := NewTokenManager(strings.Repeat("z", 32), time.Hour)
	credential, _, err := other.Issue("acc-1", "ana@example.com", "Ana", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm.Verify(credential); err == nil {
		t.Fatal("Verify accepted a credential signed with a different secret")
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	claims := &SessionClaims{
		Email: "ana@example.com",
		Name:  "Ana",
		Role:  domain.Role("SUPERUSER"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := testManager(time.Hour).Verify(signed); err == nil {
		t.Fatal("Verify accepted a role outside the closed set")
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	claims := jwt.MapClaims{"sub": "acc-1", "role": "ADMIN"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := testManager(time.Hour).Verify(unsigned); err == nil {
		t.Fatal("Verify accepted an alg=none token")
	}
}
