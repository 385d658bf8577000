package utils

import (
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultIDPrefix = "ID"

var (
	idMu     sync.Mutex
	lastIDMs int64
)

// GenerateID returns PREFIX-<unix millis>-<5 random base36 chars>. The
// millisecond part strictly increases within the process, so two calls never
// share it.
func GenerateID(prefix string) string {
	if prefix == "" {
		prefix = defaultIDPrefix
	}
	return prefix + "-" + strconv.FormatInt(nextMillis(time.Now()), 10) + "-" + RandomCode(5)
}

func nextMillis(now time.Time) int64 {
	idMu.Lock()
	defer idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= lastIDMs {
		ms = lastIDMs + 1
	}
	lastIDMs = ms
	return ms
}

// RandomCode returns n upper-case base36 characters drawn from random uuids
func RandomCode(n int) string {
	if n <= 0 {
		return ""
	}
	var sb strings.Builder
	for sb.Len() < n {
		u := uuid.New()
		digits := new(big.Int).SetBytes(u[:]).Text(36)
		// low-order digits only; the leading ones are biased
		if len(digits) > 20 {
			digits = digits[len(digits)-20:]
		}
		sb.WriteString(digits)
	}
	return strings.ToUpper(sb.String()[:n])
}
