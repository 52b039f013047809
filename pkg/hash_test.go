package dedup

import (
	"bytes"
	"testing"
)

func TestGetHashAlgorithm(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected string
	}{
		{"sha1", HashSizeSHA1, "sha1"},
		{"SHA256", HashSizeSHA256, "sha256"},
		{"sha512", HashSizeSHA512, "sha512"},
		{"sha3-256", HashSizeSHA3256, "sha3-256"},
		{"Blake3", HashSizeBLAKE3, "blake3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, err := GetHashAlgorithm(tt.name)
			if err != nil {
				t.Fatalf("GetHashAlgorithm(%s) failed: %v", tt.name, err)
			}
			if alg.Name != tt.expected || alg.Size != tt.size {
				t.Errorf("Unexpected algorithm %+v", alg)
			}
			if alg.Size > MaxDigestSize {
				t.Errorf("Digest size %d exceeds storage %d", alg.Size, MaxDigestSize)
			}

			h := alg.NewFunc()
			h.Write([]byte("dedup"))
			if got := len(h.Sum(nil)); got != tt.size {
				t.Errorf("Expected %d byte digest, got %d", tt.size, got)
			}
		})
	}
}

func TestGetHashAlgorithm_Unknown(t *testing.T) {
	for _, name := range []string{"md5", "crc32", ""} {
		if _, err := GetHashAlgorithm(name); err == nil {
			t.Errorf("Expected an error for %q", name)
		}
	}
}

func TestHashAlgorithm_Deterministic(t *testing.T) {
	for _, name := range SupportedHashAlgorithms() {
		alg, err := GetHashAlgorithm(name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) failed: %v", name, err)
		}
		a, b := alg.NewFunc(), alg.NewFunc()
		a.Write(patternContent(PartialSize, 7))
		b.Write(patternContent(PartialSize, 7))
		if !bytes.Equal(a.Sum(nil), b.Sum(nil)) {
			t.Errorf("%s: equal input gave different digests", name)
		}
	}
}
