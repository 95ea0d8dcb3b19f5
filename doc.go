/*
Package securetoken issues and verifies signed (JWS, RFC 7515) and signed-then-encrypted
(nested JWE, RFC 7516) bearer tokens carrying arbitrary claims.

# Overview

The package is a stateless transformation layer: claims and key material go in, a compact
token comes out, and the reverse. It keeps no sessions, no revocation lists and no keys.
Secret material is handed in on every call and dropped when the call returns.

# Algorithms

**Signatures** (SignatureAlgorithm):
  - HS256, HS384, HS512 over a Secret of at least 32, 48 and 64 bytes.
  - RS256, RS384, RS512 over an RSA KeyPair of at least 2048 bits.
  - EdDSA, Ed25519, Ed448, ES256, ES256K, ES384, ES512, PS256, PS384 and PS512 are
    recognized but not supported.

**Key management** (EncryptionAlgorithm):
  - DIR: the Secret is the content encryption key.
  - ECDH1PUA128KW, ECDH1PUA192KW, ECDH1PUA256KW over an EC KeyPair (P-256, P-384, P-521).
  - RSAOAEP256, RSAOAEP384, RSAOAEP512 over an RSA KeyPair.

**Content encryption** (EncryptionMethod): A128CBCHS256, A192CBCHS384, A256CBCHS512 and XC20P.

# Token Lifecycle

 1. GenerateToken signs claims into a JWS. "exp", "iat" and "jti" are always stamped.
 2. GenerateEncryptedToken wraps an existing JWS into a JWE, or
    GenerateSignedEncryptedToken does both steps at once.
 3. GetAllClaimsFromToken and GetAllClaimsFromEncryptedToken verify and return the claims.
 4. GetPayloadKeys and GetPayloadExceptKeys (and their encrypted forms) return a projection.

Example:

	service := securetoken.New(securetoken.WithLeeway(5 * time.Second))

	secret := securetoken.NewSecret("a-shared-secret-of-at-least-32-bytes!")
	claims := securetoken.NewClaims().Set("sub", "user-1").Set("role", "admin")

	token, err := service.GenerateToken(securetoken.HS256, secret, claims, 15*time.Minute)
	if err != nil {
		return err
	}

	verified, err := service.GetAllClaimsFromToken(token, secret)

# Errors

Every operation returns an *Error of one of four kinds:

  - KindIllegalArgument: the caller's fault. Empty tokens or secrets, key material that
    does not fit the requested algorithm, a missing key filter. Reported before any
    cryptographic work.
  - KindInvalid: the token is malformed or forged. The error never says which check failed.
  - KindExpired: the token is authentic but its "exp" has passed.
  - KindToken: the verifier's key does not fit the algorithm the token declares, or an
    unexpected cryptographic failure.

Match them with errors.Is against ErrIllegalArgument, ErrTokenInvalid, ErrTokenExpired and
ErrToken (which matches the last three kinds), or with KindOf. The GetSafe* methods return
the same outcome as a Result value instead.

# Configuration

Options (WithLeeway, WithLogger, WithSignatureAlgorithms, ...) configure a Service once.
Config reads the same settings from the environment, see LoadConfig and NewFromConfig.
A Service is immutable and safe for concurrent use.
*/
package securetoken
