package auth

import "golang.org/x/crypto/bcrypt"

// HashGatewayKey hashes a gateway shared secret with cost. cmd/gatewaykey
// prints its output for AUTH_GATEWAY_KEY_HASH.
func HashGatewayKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareGatewayKey verifies a presented key against its hashed value.
func CompareGatewayKey(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
