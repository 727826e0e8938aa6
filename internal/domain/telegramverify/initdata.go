// Package telegramverify implements Telegram's documented initData HMAC
// verification scheme (spec.md §4.8) as pure functions, independent of any
// transport or storage concern — the replay guard is an interface so the
// two concrete cache backends (LRU, Redis) live in infrastructure.
package telegramverify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const webAppDataKey = "WebAppData"

// Fields is the parsed key/value set of a raw initData payload.
type Fields map[string]string

// Parse splits a raw query-string-like initData payload into its fields.
func Parse(raw string) (Fields, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed initData payload: %w", err)
	}
	fields := make(Fields, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		fields[k] = v[0]
	}
	return fields, nil
}

// dataCheckString builds the newline-joined, lexicographically sorted
// key=value string Telegram's scheme signs — every field except hash.
func dataCheckString(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	return strings.Join(pairs, "\n")
}

func hmacHex(key, msg string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the HMAC chain from spec.md §4.8 steps 2-4:
// secret = HMAC_SHA256(key="WebAppData", msg=botToken);
// require HMAC_SHA256(key=secret, msg=data_check_string) == hash.
func VerifySignature(fields Fields, botToken string) bool {
	hash, ok := fields["hash"]
	if !ok {
		return false
	}
	secret := hmac.New(sha256.New, []byte(webAppDataKey))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheckString(fields)))
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(hash))
}

// VerifyFreshness rejects payloads older than maxAge (spec.md §4.8 step 5,
// default 600s).
func VerifyFreshness(fields Fields, now time.Time, maxAge time.Duration) error {
	raw, ok := fields["auth_date"]
	if !ok {
		return fmt.Errorf("initData missing auth_date")
	}
	authDateUnix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid auth_date: %w", err)
	}
	authDate := time.Unix(authDateUnix, 0)
	if now.Sub(authDate) > maxAge {
		return fmt.Errorf("initData is stale")
	}
	return nil
}

// Hash returns the payload's hash field, the key the replay guard tracks.
func Hash(fields Fields) string {
	return fields["hash"]
}
