package securetoken

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

const (
	jwsSegments = 3
	jweSegments = 5

	sep = "."

	// typeJWT is the "typ" of every JWS and the "cty" of every JWE issued here.
	typeJWT = "JWT"
)

// A builtin list of fixed JWS headers, one per supported signature algorithm.
// key = alg, value = the base64 encoded header.
// Filled once on package initialization and read-only afterwards.
var fixedHeaders = func() map[SignatureAlgorithm]string {
	headers := make(map[SignatureAlgorithm]string, len(signatureAlgorithms))
	for alg, def := range signatureAlgorithms {
		if def.signer == nil {
			continue
		}

		headers[alg] = Base64Encode([]byte(`{"alg":"` + def.name + `","typ":"` + typeJWT + `"}`))
	}

	return headers
}()

// jwsHeader is the decoded protected header of a JWS.
type jwsHeader struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ,omitempty"`
}

func createHeader(alg SignatureAlgorithm) string {
	return fixedHeaders[alg]
}

func joinParts(parts ...string) string {
	return strings.Join(parts, sep)
}

// splitToken splits a compact token into exactly n non-empty-delimited parts.
// Segments themselves may be empty (e.g. the encrypted key of a "dir" JWE).
func splitToken(token string, n int) ([]string, bool) {
	if strings.Count(token, sep) != n-1 {
		return nil, false
	}

	return strings.Split(token, sep), true
}

// decodeSegment decodes a base64url segment and unmarshals it as JSON into dest.
func decodeSegment(segment string, dest any) error {
	b, err := Base64Decode(segment)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dest)
}

// Base64Encode encodes "src" to the unpadded base64url alphabet of RFC 7515.
func Base64Encode(src []byte) string {
	return base64.RawURLEncoding.EncodeToString(src)
}

// Base64Decode decodes an unpadded base64url segment.
// Decoding is strict: padding characters and non-zero trailing bits are rejected,
// so no two distinct segments decode to the same bytes.
func Base64Decode(src string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(src)
}

// IsJWSToken reports whether token has the JWS compact form:
// three segments and a decodable header declaring an "alg" without an "enc".
func IsJWSToken(token string) bool {
	parts, ok := splitToken(token, jwsSegments)
	if !ok {
		return false
	}

	var header map[string]any
	if err := decodeSegment(parts[0], &header); err != nil {
		return false
	}

	alg, _ := header["alg"].(string)
	_, hasEnc := header["enc"]
	return alg != "" && !hasEnc
}

// IsJWEToken reports whether token has the JWE compact form:
// five segments and a decodable header declaring both "alg" and "enc".
func IsJWEToken(token string) bool {
	parts, ok := splitToken(token, jweSegments)
	if !ok {
		return false
	}

	var header jweHeader
	if err := decodeSegment(parts[0], &header); err != nil {
		return false
	}

	return header.Algorithm != "" && header.Method != ""
}
