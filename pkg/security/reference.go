package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// referenceCharset omits characters customers misread over the phone.
var referenceCharset = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// GenerateReference returns prefix-XXXXXX style customer reference numbers.
func GenerateReference(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(referenceCharset)))
	out := make([]rune, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = referenceCharset[idx.Int64()]
	}
	if prefix == "" {
		return string(out), nil
	}
	return prefix + "-" + string(out), nil
}
