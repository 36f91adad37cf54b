package authgateway

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
)

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errAuthTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
