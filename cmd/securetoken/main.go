// Command securetoken issues, verifies and inspects tokens from the command line.
//
// Usage:
//
//	securetoken sign    -alg HS256 -secret ./secret.txt -claims '{"sub":"user-1"}' -ttl 15m
//	securetoken encrypt -alg HS256 -secret ./secret.txt -enc-alg RSA-OAEP-256 -enc A256CBC-HS512 \
//	                    -enc-public ./rsa_public.pem -enc-private ./rsa_private.pem -claims '{}'
//	securetoken verify  -secret ./secret.txt [-enc-public ... -enc-private ... | -enc-secret ...] TOKEN
//	securetoken inspect TOKEN
//
// Service settings are read from the SECURETOKEN_* environment variables,
// a .env file in the working directory is loaded first when present.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kataras/securetoken"
)

// Exit codes, one per error kind. Usage errors exit with exitFailure.
const (
	exitFailure         = 1
	exitIllegalArgument = 2
	exitInvalid         = 3
	exitExpired         = 4
	exitToken           = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: securetoken <sign|encrypt|verify|inspect> [flags]")
		return exitFailure
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
		return exitFailure
	}

	cfg, err := securetoken.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	service, err := securetoken.NewFromConfig(cfg, securetoken.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "sign":
		err = sign(service, args, stdout, false)
	case "encrypt":
		err = sign(service, args, stdout, true)
	case "verify":
		err = verify(service, args, stdout)
	case "inspect":
		err = inspect(args, stdout)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	return 0
}

func exitCode(err error) int {
	switch securetoken.KindOf(err) {
	case securetoken.KindIllegalArgument:
		return exitIllegalArgument
	case securetoken.KindInvalid:
		return exitInvalid
	case securetoken.KindExpired:
		return exitExpired
	case securetoken.KindToken:
		return exitToken
	default:
		return exitFailure
	}
}

// keyFlags are the flags selecting secret material: a shared secret (file or raw value)
// or a PEM key pair.
type keyFlags struct {
	secret  *string
	public  *string
	private *string
}

func addKeyFlags(fs *flag.FlagSet, prefix, usage string) keyFlags {
	return keyFlags{
		secret:  fs.String(prefix+"secret", "", usage+" shared secret, a filename or the raw value"),
		public:  fs.String(prefix+"public", "", usage+" PEM public key filename"),
		private: fs.String(prefix+"private", "", usage+" PEM private key filename"),
	}
}

func (k keyFlags) set() bool {
	return *k.secret != "" || *k.public != "" || *k.private != ""
}

func (k keyFlags) load() (securetoken.SecretMaterial, error) {
	if *k.public != "" || *k.private != "" {
		return securetoken.LoadKeyPair(*k.public, *k.private)
	}

	return securetoken.LoadSecret(*k.secret)
}

func sign(service *securetoken.Service, args []string, stdout io.Writer, encrypt bool) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	var (
		algName    = fs.String("alg", "HS256", "signature algorithm")
		claimsJSON = fs.String("claims", "{}", "claims as a JSON object")
		ttl        = fs.Duration("ttl", 15*time.Minute, "token lifetime")
		sigKey     = addKeyFlags(fs, "", "signature")
		encAlgName = fs.String("enc-alg", "dir", "key management algorithm (encrypt only)")
		methodName = fs.String("enc", "A256CBC-HS512", "content encryption method (encrypt only)")
		encKey     = addKeyFlags(fs, "enc-", "encryption")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	alg, ok := securetoken.ParseSignatureAlgorithm(*algName)
	if !ok {
		return fmt.Errorf("unknown signature algorithm %q", *algName)
	}

	claims := securetoken.NewClaims()
	if err := claims.UnmarshalJSON([]byte(*claimsJSON)); err != nil {
		return fmt.Errorf("claims: %w", err)
	}

	secret, err := sigKey.load()
	if err != nil {
		return err
	}

	var token string
	if encrypt {
		enc, err := encryption(*encAlgName, *methodName, encKey)
		if err != nil {
			return err
		}

		sig := securetoken.Signature{Algorithm: alg, Secret: secret}
		token, err = service.GenerateSignedEncryptedToken(enc, sig, claims, *ttl)
		if err != nil {
			return err
		}
	} else {
		if token, err = service.GenerateToken(alg, secret, claims, *ttl); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(stdout, token)
	return err
}

func encryption(algName, methodName string, keys keyFlags) (securetoken.Encryption, error) {
	alg, ok := securetoken.ParseEncryptionAlgorithm(algName)
	if !ok {
		return securetoken.Encryption{}, fmt.Errorf("unknown encryption algorithm %q", algName)
	}

	method, ok := securetoken.ParseEncryptionMethod(methodName)
	if !ok {
		return securetoken.Encryption{}, fmt.Errorf("unknown encryption method %q", methodName)
	}

	key, err := keys.load()
	if err != nil {
		return securetoken.Encryption{}, err
	}

	return securetoken.Encryption{Algorithm: alg, Method: method, Key: key}, nil
}

func verify(service *securetoken.Service, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var (
		sigKey = addKeyFlags(fs, "", "signature")
		encKey = addKeyFlags(fs, "enc-", "decryption")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return errors.New("verify: exactly one token argument is required")
	}
	token := fs.Arg(0)

	secret, err := sigKey.load()
	if err != nil {
		return err
	}

	var res securetoken.Result
	if securetoken.IsJWEToken(token) {
		if !encKey.set() {
			return errors.New("verify: an encrypted token requires -enc-secret or -enc-public and -enc-private")
		}

		decryptionKey, err := encKey.load()
		if err != nil {
			return err
		}

		res = service.GetSafeAllClaimsFromEncryptedToken(token, decryptionKey, secret)
	} else {
		res = service.GetSafeAllClaimsFromToken(token, secret)
	}

	claims, err := res.Unwrap()
	if err != nil {
		return err
	}

	b, err := claims.MarshalJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, string(b))
	return err
}

func inspect(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("inspect: exactly one token argument is required")
	}

	header, err := securetoken.Inspect(args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%+v\n", header)
	return err
}
